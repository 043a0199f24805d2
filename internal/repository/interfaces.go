package repository

import (
	"context"

	"github.com/M1hasMAD/account-service/internal/models"
)

// Accounts persists account rows. Update is a version-checked conditional
// write: it succeeds only if the stored version still equals the version on
// the passed account, and the returned row carries version+1. A stale write
// fails with models.ErrVersionConflict.
type Accounts interface {
	Create(ctx context.Context, a models.Account) (models.Account, error)
	GetByID(ctx context.Context, id int64) (models.Account, error)
	Update(ctx context.Context, a models.Account) (models.Account, error)
}

// Balances persists balance rows, one per account, with the same optimistic
// version discipline as Accounts. UpdatePair writes two rows inside a single
// storage transaction; either both land or neither does.
type Balances interface {
	Create(ctx context.Context, b models.Balance) (models.Balance, error)
	GetByAccountID(ctx context.Context, accountID int64) (models.Balance, error)
	Update(ctx context.Context, b models.Balance) (models.Balance, error)
	UpdatePair(ctx context.Context, from, to models.Balance) (models.Balance, models.Balance, error)
}
