package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeposit_MovesBothBalances(t *testing.T) {
	b := Balance{Authorization: dec("10.00"), Actual: dec("25.50")}

	require.NoError(t, b.Deposit(dec("4.50")))
	assert.True(t, b.Authorization.Equal(dec("14.50")))
	assert.True(t, b.Actual.Equal(dec("30.00")))
}

func TestDeposit_RejectsNonPositive(t *testing.T) {
	b := Balance{Authorization: dec("10"), Actual: dec("10")}

	require.ErrorIs(t, b.Deposit(dec("0")), ErrInvalidAmount)
	require.ErrorIs(t, b.Deposit(dec("-1")), ErrInvalidAmount)
	assert.True(t, b.Authorization.Equal(dec("10")))
	assert.True(t, b.Actual.Equal(dec("10")))
}

func TestWithdraw_MovesBothBalances(t *testing.T) {
	b := Balance{Authorization: dec("200.00"), Actual: dec("500.00")}

	require.NoError(t, b.Withdraw(dec("100.00")))
	assert.True(t, b.Authorization.Equal(dec("100.00")))
	assert.True(t, b.Actual.Equal(dec("400.00")))
}

func TestWithdraw_InsufficientAuthorization(t *testing.T) {
	b := Balance{Authorization: dec("50.00"), Actual: dec("500.00")}

	err := b.Withdraw(dec("100.00"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, b.Authorization.Equal(dec("50.00")), "balances must be untouched")
	assert.True(t, b.Actual.Equal(dec("500.00")))
}

// The actual balance may go negative: sufficiency is judged on authorization
// alone.
func TestWithdraw_ActualMayGoNegative(t *testing.T) {
	b := Balance{Authorization: dec("100"), Actual: dec("20")}

	require.NoError(t, b.Withdraw(dec("50")))
	assert.True(t, b.Actual.Equal(dec("-30")))
}

func TestReceive_CreditsActualOnly(t *testing.T) {
	b := Balance{Authorization: dec("300.00"), Actual: dec("300.00")}

	require.NoError(t, b.Receive(dec("100.00")))
	assert.True(t, b.Authorization.Equal(dec("300.00")), "inbound transfer must not inflate authorization")
	assert.True(t, b.Actual.Equal(dec("400.00")))
}

func TestDepositWithdraw_RoundTripExact(t *testing.T) {
	b := Balance{Authorization: dec("1.03"), Actual: dec("99.99")}

	require.NoError(t, b.Deposit(dec("10.37")))
	require.NoError(t, b.Withdraw(dec("10.37")))
	assert.True(t, b.Authorization.Equal(dec("1.03")), "got %s", b.Authorization)
	assert.True(t, b.Actual.Equal(dec("99.99")), "got %s", b.Actual)
}
