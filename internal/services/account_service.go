package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/M1hasMAD/account-service/internal/metrics"
	"github.com/M1hasMAD/account-service/internal/models"
	"github.com/M1hasMAD/account-service/internal/notify"
	repo "github.com/M1hasMAD/account-service/internal/repository"
)

// AccountService owns account identity and the lifecycle state machine.
type AccountService struct {
	accounts repo.Accounts
	events   *notify.Notifier
	seq      atomic.Int64
}

func NewAccountService(accounts repo.Accounts, events *notify.Notifier) *AccountService {
	return &AccountService{accounts: accounts, events: events}
}

// OpenAccountParams carries the required fields for opening an account.
type OpenAccountParams struct {
	OwnerType models.OwnerType
	OwnerID   int64
	Type      models.AccountType
	Currency  string
}

func (p OpenAccountParams) validate() error {
	if !p.OwnerType.Valid() {
		return &models.ValidationError{Field: "owner_type", Msg: "must be INDIVIDUAL or BUSINESS"}
	}
	if p.OwnerID <= 0 {
		return &models.ValidationError{Field: "owner_id", Msg: "required"}
	}
	if !p.Type.Valid() {
		return &models.ValidationError{Field: "account_type", Msg: "must be CREDIT, CURRENT or SAVINGS"}
	}
	if len(p.Currency) != 3 {
		return &models.ValidationError{Field: "currency", Msg: "must be a 3-letter ISO code"}
	}
	for _, ch := range p.Currency {
		if ch < 'A' || ch > 'Z' {
			return &models.ValidationError{Field: "currency", Msg: "must be a 3-letter ISO code"}
		}
	}
	return nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Open validates the requested account, assigns an account number, and
// persists it in OPEN status.
func (s *AccountService) Open(ctx context.Context, p OpenAccountParams) (models.Account, error) {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if err := p.validate(); err != nil {
		return models.Account{}, err
	}

	account := models.Account{
		Number:    s.nextAccountNumber(),
		OwnerType: p.OwnerType,
		OwnerID:   p.OwnerID,
		Type:      p.Type,
		Currency:  p.Currency,
		Status:    models.StatusOpen,
	}
	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return models.Account{}, fmt.Errorf("creating account: %w", err)
	}

	metrics.AccountOperations.WithLabelValues("open").Inc()
	s.events.Publish(notify.AccountOpened, created.ID)
	return created, nil
}

func (s *AccountService) Freeze(ctx context.Context, id int64) (models.Account, error) {
	return s.transition(ctx, id, models.StatusFrozen, "freeze", notify.AccountFrozen)
}

func (s *AccountService) Block(ctx context.Context, id int64) (models.Account, error) {
	return s.transition(ctx, id, models.StatusBlocked, "block", notify.AccountBlocked)
}

func (s *AccountService) Close(ctx context.Context, id int64) (models.Account, error) {
	return s.transition(ctx, id, models.StatusClosed, "close", notify.AccountClosed)
}

// transition is the shared load / check state machine / versioned-write path
// for freeze, block and close.
func (s *AccountService) transition(ctx context.Context, id int64, next models.AccountStatus, op, event string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	if err := account.TransitionTo(next, time.Now().UTC()); err != nil {
		metrics.OperationFailures.WithLabelValues("invalid_transition").Inc()
		return models.Account{}, err
	}

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return models.Account{}, countConflict(err)
	}

	metrics.AccountOperations.WithLabelValues(op).Inc()
	s.events.Publish(event, updated.ID)
	return updated, nil
}

// nextAccountNumber produces a unique fixed-format 20-digit number. The
// process-local sequence disambiguates opens landing on the same nanosecond.
func (s *AccountService) nextAccountNumber() string {
	const mod = int64(100_000_000_000_000_000) // keep the timestamp part at 17 digits
	return fmt.Sprintf("%017d%03d", time.Now().UnixNano()%mod, s.seq.Add(1)%1000)
}
