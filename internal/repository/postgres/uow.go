package postgres

import (
	"context"
	"errors"
	"log/slog"

	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type UnitOfWork struct{ db DB }

func NewUnitOfWork(db DB) *UnitOfWork { return &UnitOfWork{db: db} }

// WithinTx runs fn on a Store bound to one pgx transaction at the server's
// default isolation level. Any error from fn, or a panic, rolls it back.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(repo.Store) error) (err error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(NewStore(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
			slog.ErrorContext(ctx, "tx rollback", "err", rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}
