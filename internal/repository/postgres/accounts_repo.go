package postgres

import (
	"context"
	"errors"

	"github.com/M1hasMAD/account-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type accountsRepo struct{ pool *pgxpool.Pool }

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO accounts (number, owner_type, owner_id, account_type, currency, status, version)
		 VALUES ($1, $2, $3, $4, $5, $6, 1)
		 RETURNING id, created_at, updated_at, version`,
		a.Number, a.OwnerType, a.OwnerID, a.Type, a.Currency, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Version)
	return a, err
}

func (r *accountsRepo) GetByID(ctx context.Context, id int64) (models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, number, owner_type, owner_id, account_type, currency, status,
		        created_at, updated_at, closed_at, version
		   FROM accounts
		  WHERE id=$1`,
		id,
	).Scan(&a.ID, &a.Number, &a.OwnerType, &a.OwnerID, &a.Type, &a.Currency, &a.Status,
		&a.CreatedAt, &a.UpdatedAt, &a.ClosedAt, &a.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, models.ErrAccountNotFound
	}
	return a, err
}

// Update writes the mutable columns conditioned on the version read by the
// caller. Accounts are never deleted, so zero rows means a concurrent writer
// won the race.
func (r *accountsRepo) Update(ctx context.Context, a models.Account) (models.Account, error) {
	err := r.pool.QueryRow(
		ctx,
		`UPDATE accounts
		    SET status=$2,
		        updated_at=now(),
		        closed_at=$3,
		        version=version+1
		  WHERE id=$1 AND version=$4
		  RETURNING updated_at, closed_at, version`,
		a.ID, a.Status, a.ClosedAt, a.Version,
	).Scan(&a.UpdatedAt, &a.ClosedAt, &a.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, models.ErrVersionConflict
	}
	return a, err
}
