package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/M1hasMAD/account-service/internal/metrics"
	"github.com/M1hasMAD/account-service/internal/models"
	"github.com/M1hasMAD/account-service/internal/notify"
	repo "github.com/M1hasMAD/account-service/internal/repository"
	"github.com/shopspring/decimal"
)

// BalanceService owns the dual-balance ledger. It depends on AccountService
// only to check the account exists before a balance row is first created;
// after that the two compose through the account id alone.
type BalanceService struct {
	balances repo.Balances
	accounts *AccountService
	events   *notify.Notifier
}

func NewBalanceService(balances repo.Balances, accounts *AccountService, events *notify.Notifier) *BalanceService {
	return &BalanceService{balances: balances, accounts: accounts, events: events}
}

// BalanceAmounts carries the two balance values for create and update.
// Zero values mean zero balances.
type BalanceAmounts struct {
	Authorization decimal.Decimal
	Actual        decimal.Decimal
}

func (s *BalanceService) GetByAccount(ctx context.Context, accountID int64) (models.Balance, error) {
	return s.balances.GetByAccountID(ctx, accountID)
}

// Create persists the balance row for an existing account.
func (s *BalanceService) Create(ctx context.Context, accountID int64, initial BalanceAmounts) (models.Balance, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return models.Balance{}, err
	}

	created, err := s.balances.Create(ctx, models.Balance{
		AccountID:     accountID,
		Authorization: initial.Authorization,
		Actual:        initial.Actual,
	})
	if err != nil {
		return models.Balance{}, fmt.Errorf("creating balance for account %d: %w", accountID, err)
	}

	metrics.BalanceOperations.WithLabelValues("create").Inc()
	s.events.Publish(notify.BalanceCreated, accountID)
	return created, nil
}

// Update overwrites both balances directly. This is the administrative
// correction path, not an everyday transaction.
func (s *BalanceService) Update(ctx context.Context, accountID int64, amounts BalanceAmounts) (models.Balance, error) {
	balance, err := s.balances.GetByAccountID(ctx, accountID)
	if err != nil {
		return models.Balance{}, err
	}
	balance.Authorization = amounts.Authorization
	balance.Actual = amounts.Actual

	updated, err := s.balances.Update(ctx, balance)
	if err != nil {
		return models.Balance{}, countConflict(err)
	}

	metrics.BalanceOperations.WithLabelValues("update").Inc()
	s.events.Publish(notify.BalanceUpdated, accountID)
	return updated, nil
}

// Deposit adds amount to both balances of the account.
func (s *BalanceService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (models.Balance, error) {
	return s.mutate(ctx, accountID, amount, "deposit", notify.BalanceDeposit, func(b *models.Balance) error {
		return b.Deposit(amount)
	})
}

// Withdraw removes amount from both balances; the authorization balance must
// cover the debit.
func (s *BalanceService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (models.Balance, error) {
	return s.mutate(ctx, accountID, amount, "withdraw", notify.BalanceWithdraw, func(b *models.Balance) error {
		return b.Withdraw(amount)
	})
}

func (s *BalanceService) mutate(ctx context.Context, accountID int64, amount decimal.Decimal, op, event string, apply func(*models.Balance) error) (models.Balance, error) {
	// Reject a bad amount before touching the store.
	if amount.Sign() <= 0 {
		metrics.OperationFailures.WithLabelValues("invalid_amount").Inc()
		return models.Balance{}, models.ErrInvalidAmount
	}

	balance, err := s.balances.GetByAccountID(ctx, accountID)
	if err != nil {
		return models.Balance{}, err
	}
	if err := apply(&balance); err != nil {
		return models.Balance{}, countRejection(err)
	}

	updated, err := s.balances.Update(ctx, balance)
	if err != nil {
		return models.Balance{}, countConflict(err)
	}

	metrics.BalanceOperations.WithLabelValues(op).Inc()
	s.events.Publish(event, accountID)
	return updated, nil
}

// Transfer moves amount between two accounts: the sender's authorization and
// actual balances are debited, the receiver's actual balance is credited.
// Both rows are written in one storage transaction.
func (s *BalanceService) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal) (models.Balance, models.Balance, error) {
	if amount.Sign() <= 0 {
		metrics.OperationFailures.WithLabelValues("invalid_amount").Inc()
		return models.Balance{}, models.Balance{}, models.ErrInvalidAmount
	}
	if fromAccountID == toAccountID {
		return models.Balance{}, models.Balance{}, models.ErrSameAccount
	}

	from, err := s.balances.GetByAccountID(ctx, fromAccountID)
	if err != nil {
		return models.Balance{}, models.Balance{}, fmt.Errorf("sender account %d: %w", fromAccountID, err)
	}
	to, err := s.balances.GetByAccountID(ctx, toAccountID)
	if err != nil {
		return models.Balance{}, models.Balance{}, fmt.Errorf("receiver account %d: %w", toAccountID, err)
	}

	if err := from.Withdraw(amount); err != nil {
		return models.Balance{}, models.Balance{}, countRejection(err)
	}
	if err := to.Receive(amount); err != nil {
		return models.Balance{}, models.Balance{}, countRejection(err)
	}

	savedFrom, savedTo, err := s.balances.UpdatePair(ctx, from, to)
	if err != nil {
		return models.Balance{}, models.Balance{}, countConflict(err)
	}

	metrics.BalanceOperations.WithLabelValues("transfer").Inc()
	s.events.Publish(notify.BalanceTransfer, fromAccountID)
	s.events.Publish(notify.BalanceTransfer, toAccountID)
	return savedFrom, savedTo, nil
}

func countRejection(err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientBalance):
		metrics.OperationFailures.WithLabelValues("insufficient_balance").Inc()
	case errors.Is(err, models.ErrInvalidAmount):
		metrics.OperationFailures.WithLabelValues("invalid_amount").Inc()
	}
	return err
}

func countConflict(err error) error {
	if errors.Is(err, models.ErrVersionConflict) {
		metrics.VersionConflicts.Inc()
	}
	return err
}
