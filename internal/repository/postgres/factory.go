package postgres

import (
	repo "github.com/M1hasMAD/account-service/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Accounts repo.Accounts
	Balances repo.Balances
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts: &accountsRepo{pool},
		Balances: &balancesRepo{pool},
	}
}
