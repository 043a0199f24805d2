package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the dual-balance row for an account. The authorization balance
// is the holder's spendable headroom; the actual balance is settled funds.
// The two move together on deposits and withdrawals, and independently on
// inbound transfers.
type Balance struct {
	AccountID     int64           `json:"account_id"`
	Authorization decimal.Decimal `json:"authorization_balance"`
	Actual        decimal.Decimal `json:"actual_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int64           `json:"version"`
}

// Deposit adds amount to both balances.
func (b *Balance) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.Authorization = b.Authorization.Add(amount)
	b.Actual = b.Actual.Add(amount)
	return nil
}

// Withdraw removes amount from both balances. The debit must not drive the
// authorization balance negative.
func (b *Balance) Withdraw(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if b.Authorization.LessThan(amount) {
		return ErrInsufficientBalance
	}
	b.Authorization = b.Authorization.Sub(amount)
	b.Actual = b.Actual.Sub(amount)
	return nil
}

// Receive credits settled funds from an inbound transfer. Only the actual
// balance moves: authorization tracks the holder's own spending room and is
// not inflated by someone else's payment.
func (b *Balance) Receive(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.Actual = b.Actual.Add(amount)
	return nil
}
