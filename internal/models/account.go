package models

import (
	"fmt"
	"time"
)

type OwnerType string

const (
	OwnerIndividual OwnerType = "INDIVIDUAL"
	OwnerBusiness   OwnerType = "BUSINESS"
)

func (t OwnerType) Valid() bool {
	return t == OwnerIndividual || t == OwnerBusiness
}

type AccountType string

const (
	AccountCredit  AccountType = "CREDIT"
	AccountCurrent AccountType = "CURRENT"
	AccountSavings AccountType = "SAVINGS"
)

func (t AccountType) Valid() bool {
	return t == AccountCredit || t == AccountCurrent || t == AccountSavings
}

type AccountStatus string

const (
	StatusOpen    AccountStatus = "OPEN"
	StatusFrozen  AccountStatus = "FROZEN"
	StatusBlocked AccountStatus = "BLOCKED"
	StatusClosed  AccountStatus = "CLOSED"
)

// statusTransitions is the single source of truth for the lifecycle state
// machine. CLOSED is terminal; FROZEN and BLOCKED only move to CLOSED.
var statusTransitions = map[AccountStatus]map[AccountStatus]bool{
	StatusOpen:    {StatusFrozen: true, StatusBlocked: true, StatusClosed: true},
	StatusFrozen:  {StatusClosed: true},
	StatusBlocked: {StatusClosed: true},
	StatusClosed:  {},
}

// CanTransitionTo reports whether the lifecycle state machine allows moving
// from s to next.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	return statusTransitions[s][next]
}

type Account struct {
	ID        int64         `json:"id"`
	Number    string        `json:"number"`
	OwnerType OwnerType     `json:"owner_type"`
	OwnerID   int64         `json:"owner_id"`
	Type      AccountType   `json:"account_type"`
	Currency  string        `json:"currency"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty"`
	Version   int64         `json:"version"`
}

// TransitionTo moves the account to next if the state machine permits it.
// ClosedAt is set exactly when the account reaches CLOSED.
func (a *Account) TransitionTo(next AccountStatus, now time.Time) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = now
	if next == StatusClosed {
		a.ClosedAt = &now
	}
	return nil
}
