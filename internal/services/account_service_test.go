package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M1hasMAD/account-service/internal/models"
	"github.com/M1hasMAD/account-service/internal/repository/memory"
)

func newAccountService() *AccountService {
	return NewAccountService(memory.NewStore().Accounts(), nil)
}

func openAccount(t *testing.T, svc *AccountService) models.Account {
	t.Helper()
	a, err := svc.Open(context.Background(), OpenAccountParams{
		OwnerType: models.OwnerIndividual,
		OwnerID:   7,
		Type:      models.AccountCurrent,
		Currency:  "USD",
	})
	require.NoError(t, err)
	return a
}

func TestOpen(t *testing.T) {
	svc := newAccountService()
	a := openAccount(t, svc)

	assert.Equal(t, models.StatusOpen, a.Status)
	assert.Equal(t, int64(1), a.Version)
	assert.Len(t, a.Number, 20)
	assert.Equal(t, "USD", a.Currency)
	assert.Nil(t, a.ClosedAt)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestOpen_NumbersAreUnique(t *testing.T) {
	svc := newAccountService()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		a := openAccount(t, svc)
		require.False(t, seen[a.Number], "duplicate account number %s", a.Number)
		seen[a.Number] = true
	}
}

func TestOpen_Validation(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()

	cases := []struct {
		name   string
		params OpenAccountParams
		field  string
	}{
		{"missing owner type", OpenAccountParams{OwnerID: 1, Type: models.AccountCredit, Currency: "USD"}, "owner_type"},
		{"bad owner type", OpenAccountParams{OwnerType: "ALIEN", OwnerID: 1, Type: models.AccountCredit, Currency: "USD"}, "owner_type"},
		{"missing owner id", OpenAccountParams{OwnerType: models.OwnerBusiness, Type: models.AccountCredit, Currency: "USD"}, "owner_id"},
		{"bad account type", OpenAccountParams{OwnerType: models.OwnerBusiness, OwnerID: 1, Type: "CHECKING", Currency: "USD"}, "account_type"},
		{"short currency", OpenAccountParams{OwnerType: models.OwnerBusiness, OwnerID: 1, Type: models.AccountCredit, Currency: "US"}, "currency"},
		{"non-letter currency", OpenAccountParams{OwnerType: models.OwnerBusiness, OwnerID: 1, Type: models.AccountCredit, Currency: "U5D"}, "currency"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Open(ctx, c.params)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.field, verr.Field)
		})
	}
}

func TestOpen_CurrencyNormalized(t *testing.T) {
	svc := newAccountService()
	a, err := svc.Open(context.Background(), OpenAccountParams{
		OwnerType: models.OwnerBusiness,
		OwnerID:   3,
		Type:      models.AccountSavings,
		Currency:  " eur ",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", a.Currency)
}

func TestGet_NotFound(t *testing.T) {
	svc := newAccountService()
	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestFreeze_IncrementsVersion(t *testing.T) {
	svc := newAccountService()
	a := openAccount(t, svc)

	frozen, err := svc.Freeze(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFrozen, frozen.Status)
	assert.Equal(t, a.Version+1, frozen.Version)
}

func TestBlock(t *testing.T) {
	svc := newAccountService()
	a := openAccount(t, svc)

	blocked, err := svc.Block(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, blocked.Status)
	assert.Equal(t, a.Version+1, blocked.Version)
}

func TestFreezeThenClose(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()
	a := openAccount(t, svc)

	frozen, err := svc.Freeze(ctx, a.ID)
	require.NoError(t, err)

	closed, err := svc.Close(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, closed.Status)
	assert.Equal(t, frozen.Version+1, closed.Version)
	require.NotNil(t, closed.ClosedAt)

	// CLOSED is terminal.
	_, err = svc.Freeze(ctx, a.ID)
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	stored, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, stored.Status)
	assert.Equal(t, closed.Version, stored.Version, "rejected transition must not write")
}

func TestFrozenToBlocked_Forbidden(t *testing.T) {
	svc := newAccountService()
	ctx := context.Background()
	a := openAccount(t, svc)

	_, err := svc.Freeze(ctx, a.ID)
	require.NoError(t, err)

	_, err = svc.Block(ctx, a.ID)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestTransition_NotFound(t *testing.T) {
	svc := newAccountService()
	_, err := svc.Close(context.Background(), 99)
	require.ErrorIs(t, err, models.ErrAccountNotFound)
}
