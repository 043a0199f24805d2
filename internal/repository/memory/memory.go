// Package memory provides mutex-guarded in-memory repositories with the same
// optimistic-version semantics as the postgres implementations. It backs the
// test suites and the dev mode that runs without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/M1hasMAD/account-service/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]models.Account
	balances map[int64]models.Balance
}

func NewStore() *Store {
	return &Store{
		nextID:   1,
		accounts: make(map[int64]models.Account),
		balances: make(map[int64]models.Balance),
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountsRepo { return &AccountsRepo{s} }

// Balances returns the balance repository view of the store.
func (s *Store) Balances() *BalancesRepo { return &BalancesRepo{s} }

type AccountsRepo struct{ s *Store }

func (r *AccountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	a.ID = r.s.nextID
	r.s.nextID++
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Version = 1
	r.s.accounts[a.ID] = a
	return a, nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id int64) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return a, nil
}

func (r *AccountsRepo) Update(ctx context.Context, a models.Account) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.accounts[a.ID]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	if stored.Version != a.Version {
		return models.Account{}, models.ErrVersionConflict
	}
	a.UpdatedAt = time.Now().UTC()
	a.Version++
	r.s.accounts[a.ID] = a
	return a, nil
}

type BalancesRepo struct{ s *Store }

func (r *BalancesRepo) Create(ctx context.Context, b models.Balance) (models.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Version = 1
	r.s.balances[b.AccountID] = b
	return b, nil
}

func (r *BalancesRepo) GetByAccountID(ctx context.Context, accountID int64) (models.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.balances[accountID]
	if !ok {
		return models.Balance{}, models.ErrBalanceNotFound
	}
	return b, nil
}

func (r *BalancesRepo) Update(ctx context.Context, b models.Balance) (models.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.updateLocked(b)
}

// UpdatePair holds the store lock across both writes and applies them only
// after both version checks pass, mirroring the postgres transaction.
func (r *BalancesRepo) UpdatePair(ctx context.Context, from, to models.Balance) (models.Balance, models.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkLocked(from); err != nil {
		return models.Balance{}, models.Balance{}, err
	}
	if err := r.checkLocked(to); err != nil {
		return models.Balance{}, models.Balance{}, err
	}
	savedFrom, _ := r.updateLocked(from)
	savedTo, _ := r.updateLocked(to)
	return savedFrom, savedTo, nil
}

func (r *BalancesRepo) checkLocked(b models.Balance) error {
	stored, ok := r.s.balances[b.AccountID]
	if !ok {
		return models.ErrBalanceNotFound
	}
	if stored.Version != b.Version {
		return models.ErrVersionConflict
	}
	return nil
}

func (r *BalancesRepo) updateLocked(b models.Balance) (models.Balance, error) {
	if err := r.checkLocked(b); err != nil {
		return models.Balance{}, err
	}
	b.UpdatedAt = time.Now().UTC()
	b.Version++
	r.s.balances[b.AccountID] = b
	return b, nil
}
