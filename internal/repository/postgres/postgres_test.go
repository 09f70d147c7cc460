package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
	"github.com/baharkarakas/campus-closet/internal/repository/postgres"
)

var (
	updateTxnStatus  = regexp.QuoteMeta(`UPDATE transactions SET status=$3 WHERE id=$1 AND status=$2`)
	updateItemStatus = regexp.QuoteMeta(`UPDATE items SET status=$2 WHERE id=$1`)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUnitOfWork_CommitsWhenAllWritesSucceed(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(updateTxnStatus).
		WithArgs(int64(5), "pending", "completed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(updateItemStatus).
		WithArgs(int64(42), "sold").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	uow := postgres.NewUnitOfWork(mock)
	err := uow.WithinTx(context.Background(), func(s repo.Store) error {
		if err := s.Transactions().Transition(context.Background(), 5, models.TxnPending, models.TxnCompleted); err != nil {
			return err
		}
		return s.Items().UpdateStatus(context.Background(), 42, models.ItemSold)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RollsBackWhenItemUpdateFails(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("check constraint violated")

	mock.ExpectBegin()
	mock.ExpectExec(updateTxnStatus).
		WithArgs(int64(5), "pending", "completed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(updateItemStatus).
		WithArgs(int64(42), "sold").
		WillReturnError(boom)
	mock.ExpectRollback()

	uow := postgres.NewUnitOfWork(mock)
	err := uow.WithinTx(context.Background(), func(s repo.Store) error {
		if err := s.Transactions().Transition(context.Background(), 5, models.TxnPending, models.TxnCompleted); err != nil {
			return err
		}
		return s.Items().UpdateStatus(context.Background(), 42, models.ItemSold)
	})

	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactions_TransitionOnResolvedRowConflicts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(updateTxnStatus).
		WithArgs(int64(5), "pending", "cancelled").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := postgres.NewStore(mock).Transactions().Transition(context.Background(), 5, models.TxnPending, models.TxnCancelled)

	assert.ErrorIs(t, err, repo.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentals_TransitionUpdatesPendingRow(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rentals SET status=$3 WHERE id=$1 AND status=$2`)).
		WithArgs(int64(3), "pending", "active").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := postgres.NewStore(mock).Rentals().Transition(context.Background(), 3, models.RentalPending, models.RentalActive)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItems_GetByIDMissingMapsToNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM items WHERE id=$1`)).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := postgres.NewStore(mock).Items().GetByID(context.Background(), 9)

	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItems_UpdateStatusMissingRow(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(updateItemStatus).
		WithArgs(int64(9), "rented").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := postgres.NewStore(mock).Items().UpdateStatus(context.Background(), 9, models.ItemRented)

	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestItems_CountByOwner(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM items WHERE owner_id=$1`)).
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := postgres.NewStore(mock).Items().CountByOwner(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_CreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("Ece", "ece@campus.edu", "hash", "urn-1", "BUYER").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := postgres.NewStore(mock).Users().Create(context.Background(), models.User{
		Name: "Ece", Email: "ece@campus.edu", PasswordHash: "hash", URNID: "urn-1", Role: models.RoleBuyer,
	})

	assert.ErrorIs(t, err, repo.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifications_CreateManyReturnsRows(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM unnest($1::bigint[], $2::text[], $3::text[])`)).
		WithArgs([]int64{1, 2}, []string{"accepted", "confirmed"}, []string{"purchase_accepted", "sale_confirmed"}).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "message", "type", "created_at"}).
			AddRow(int64(11), int64(1), "accepted", "purchase_accepted", now).
			AddRow(int64(12), int64(2), "confirmed", "sale_confirmed", now))

	out, err := postgres.NewStore(mock).Notifications().CreateMany(context.Background(), []models.Notification{
		{UserID: 1, Message: "accepted", Type: models.NotePurchaseAccepted},
		{UserID: 2, Message: "confirmed", Type: models.NoteSaleConfirmed},
	})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(12), out[1].ID)
	assert.Equal(t, int64(2), out[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItems_TransitionFromOtherStatusConflicts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET status=$3 WHERE id=$1 AND status=$2`)).
		WithArgs(int64(42), "available", "sold").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := postgres.NewStore(mock).Items().Transition(context.Background(), 42, models.ItemAvailable, models.ItemSold)

	assert.ErrorIs(t, err, repo.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItems_ListByCategories(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM items WHERE category = ANY($1) ORDER BY created_at DESC`)).
		WithArgs([]string{"Stationary", "Textbooks"}).
		WillReturnRows(mock.NewRows([]string{"id"}))

	items, err := postgres.NewStore(mock).Items().ListByCategories(context.Background(), models.CategoriesForSlug("stationary"))

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarts_AddIncrementsExistingEntry(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`)).
		WithArgs(int64(1), int64(42), 2).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "item_id", "quantity", "created_at", "inserted"}).
			AddRow(int64(8), int64(1), int64(42), 3, now, false))

	entry, created, err := postgres.NewStore(mock).Carts().Add(context.Background(), 1, 42, 2)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 3, entry.Quantity)
	assert.Equal(t, int64(8), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarts_DeleteMissingRow(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE id=$1`)).
		WithArgs(int64(8)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := postgres.NewStore(mock).Carts().Delete(context.Background(), 8)

	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlists_AddDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO wishlist(user_id, item_id)`)).
		WithArgs(int64(1), int64(42)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "wishlist_user_id_item_id_key"})

	_, err := postgres.NewStore(mock).Wishlists().Add(context.Background(), 1, 42)

	assert.ErrorIs(t, err, repo.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviews_ListByItemNestsAuthor(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users u ON u.id = r.user_id`)).
		WithArgs(int64(42)).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "item_id", "rating", "comment", "created_at", "uid", "name", "email"}).
			AddRow(int64(3), int64(1), int64(42), 4, "solid", now, int64(1), "Ece", "ece@campus.edu"))

	reviews, err := postgres.NewStore(mock).Reviews().ListByItem(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "Ece", reviews[0].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_CheckoutRollsBackWhenItemWasSold(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET status=$3 WHERE id=$1 AND status=$2`)).
		WithArgs(int64(42), "available", "sold").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET status=$3 WHERE id=$1 AND status=$2`)).
		WithArgs(int64(7), "available", "sold").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	uow := postgres.NewUnitOfWork(mock)
	err := uow.WithinTx(context.Background(), func(s repo.Store) error {
		for _, id := range []int64{42, 7} {
			if err := s.Items().Transition(context.Background(), id, models.ItemAvailable, models.ItemSold); err != nil {
				return err
			}
		}
		return s.Carts().Clear(context.Background(), 1)
	})

	require.ErrorIs(t, err, repo.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
