package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/M1hasMAD/account-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type balancesRepo struct{ pool *pgxpool.Pool }

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *balancesRepo) Create(ctx context.Context, b models.Balance) (models.Balance, error) {
	var auth, actual string
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO balances (account_id, authorization_balance, actual_balance, version)
		 VALUES ($1, $2::numeric, $3::numeric, 1)
		 RETURNING authorization_balance::text, actual_balance::text, created_at, updated_at, version`,
		b.AccountID, b.Authorization.String(), b.Actual.String(),
	).Scan(&auth, &actual, &b.CreatedAt, &b.UpdatedAt, &b.Version)
	if err != nil {
		return models.Balance{}, err
	}
	return withAmounts(b, auth, actual)
}

func (r *balancesRepo) GetByAccountID(ctx context.Context, accountID int64) (models.Balance, error) {
	var (
		b            models.Balance
		auth, actual string
	)
	err := r.pool.QueryRow(
		ctx,
		`SELECT account_id, authorization_balance::text, actual_balance::text,
		        created_at, updated_at, version
		   FROM balances
		  WHERE account_id=$1`,
		accountID,
	).Scan(&b.AccountID, &auth, &actual, &b.CreatedAt, &b.UpdatedAt, &b.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Balance{}, models.ErrBalanceNotFound
	}
	if err != nil {
		return models.Balance{}, err
	}
	return withAmounts(b, auth, actual)
}

func (r *balancesRepo) Update(ctx context.Context, b models.Balance) (models.Balance, error) {
	return updateVersioned(ctx, r.pool, b)
}

// UpdatePair persists two balance rows inside one serializable transaction.
// Money must never leave the sender without arriving at the receiver, so a
// failure on either row rolls back both.
func (r *balancesRepo) UpdatePair(ctx context.Context, from, to models.Balance) (models.Balance, models.Balance, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return models.Balance{}, models.Balance{}, err
	}

	savedFrom, err := updateVersioned(ctx, tx, from)
	if err != nil {
		_ = tx.Rollback(ctx)
		return models.Balance{}, models.Balance{}, err
	}
	savedTo, err := updateVersioned(ctx, tx, to)
	if err != nil {
		_ = tx.Rollback(ctx)
		return models.Balance{}, models.Balance{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Balance{}, models.Balance{}, err
	}
	return savedFrom, savedTo, nil
}

func updateVersioned(ctx context.Context, q rowQuerier, b models.Balance) (models.Balance, error) {
	var auth, actual string
	err := q.QueryRow(
		ctx,
		`UPDATE balances
		    SET authorization_balance=$2::numeric,
		        actual_balance=$3::numeric,
		        updated_at=now(),
		        version=version+1
		  WHERE account_id=$1 AND version=$4
		  RETURNING authorization_balance::text, actual_balance::text, updated_at, version`,
		b.AccountID, b.Authorization.String(), b.Actual.String(), b.Version,
	).Scan(&auth, &actual, &b.UpdatedAt, &b.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Balance{}, models.ErrVersionConflict
	}
	if err != nil {
		return models.Balance{}, err
	}
	return withAmounts(b, auth, actual)
}

func withAmounts(b models.Balance, auth, actual string) (models.Balance, error) {
	var err error
	if b.Authorization, err = decimal.NewFromString(auth); err != nil {
		return models.Balance{}, fmt.Errorf("parsing authorization balance: %w", err)
	}
	if b.Actual, err = decimal.NewFromString(actual); err != nil {
		return models.Balance{}, fmt.Errorf("parsing actual balance: %w", err)
	}
	return b, nil
}
