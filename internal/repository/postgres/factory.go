package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can also open transactions.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type store struct{ q Querier }

func NewStore(q Querier) repo.Store { return store{q: q} }

func (s store) Users() repo.Users                 { return &usersRepo{s.q} }
func (s store) Items() repo.Items                 { return &itemsRepo{s.q} }
func (s store) Transactions() repo.Transactions   { return &transactionsRepo{s.q} }
func (s store) Rentals() repo.Rentals             { return &rentalsRepo{s.q} }
func (s store) Notifications() repo.Notifications { return &notificationsRepo{s.q} }
func (s store) Carts() repo.Carts                 { return &cartsRepo{s.q} }
func (s store) Wishlists() repo.Wishlists         { return &wishlistsRepo{s.q} }
func (s store) Reviews() repo.Reviews             { return &reviewsRepo{s.q} }

type Repositories struct {
	Store repo.Store
	UoW   repo.UnitOfWork
}

func NewRepositories(db DB) Repositories {
	return Repositories{
		Store: NewStore(db),
		UoW:   NewUnitOfWork(db),
	}
}
