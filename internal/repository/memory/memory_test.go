package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M1hasMAD/account-service/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newBalance(t *testing.T, s *Store, auth, actual string) models.Balance {
	t.Helper()
	ctx := context.Background()
	a, err := s.Accounts().Create(ctx, models.Account{Status: models.StatusOpen})
	require.NoError(t, err)
	b, err := s.Balances().Create(ctx, models.Balance{
		AccountID:     a.ID,
		Authorization: dec(auth),
		Actual:        dec(actual),
	})
	require.NoError(t, err)
	return b
}

func TestAccountUpdate_StaleVersionConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a, err := s.Accounts().Create(ctx, models.Account{Status: models.StatusOpen})
	require.NoError(t, err)

	// First writer wins.
	fresh := a
	fresh.Status = models.StatusFrozen
	updated, err := s.Accounts().Update(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, a.Version+1, updated.Version)

	// Second writer still holds the old version.
	stale := a
	stale.Status = models.StatusBlocked
	_, err = s.Accounts().Update(ctx, stale)
	require.ErrorIs(t, err, models.ErrVersionConflict)

	stored, err := s.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFrozen, stored.Status, "stale write must not overwrite")
}

func TestBalanceUpdate_VersionIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	b := newBalance(t, s, "100", "100")

	require.NoError(t, b.Deposit(dec("1")))
	updated, err := s.Balances().Update(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, b.Version+1, updated.Version)
}

func TestUpdatePair_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	from := newBalance(t, s, "100", "100")
	to := newBalance(t, s, "0", "0")

	// Invalidate the receiver's version so the pair write must fail.
	to.Version = 99
	require.NoError(t, from.Withdraw(dec("40")))
	require.NoError(t, to.Receive(dec("40")))

	_, _, err := s.Balances().UpdatePair(ctx, from, to)
	require.ErrorIs(t, err, models.ErrVersionConflict)

	storedFrom, err := s.Balances().GetByAccountID(ctx, from.AccountID)
	require.NoError(t, err)
	assert.True(t, storedFrom.Authorization.Equal(dec("100")), "sender row must be untouched when the pair fails")
	assert.Equal(t, int64(1), storedFrom.Version)
}

func TestBalanceUpdate_ConcurrentWritersRetry(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	b := newBalance(t, s, "0", "0")

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				cur, err := s.Balances().GetByAccountID(ctx, b.AccountID)
				if err != nil {
					return
				}
				if err := cur.Deposit(dec("1")); err != nil {
					return
				}
				_, err = s.Balances().Update(ctx, cur)
				if err == nil {
					return
				}
				if !errors.Is(err, models.ErrVersionConflict) {
					return
				}
				// Conflict: re-read and retry.
			}
		}()
	}
	wg.Wait()

	stored, err := s.Balances().GetByAccountID(ctx, b.AccountID)
	require.NoError(t, err)
	assert.True(t, stored.Authorization.Equal(dec("50")), "no deposit may be lost, got %s", stored.Authorization)
	assert.True(t, stored.Actual.Equal(dec("50")))
	assert.Equal(t, int64(1+writers), stored.Version)
}
