package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/campus-closet/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a conditional update matched no row: the record
	// exists but was no longer in the expected state.
	ErrConflict = errors.New("record state changed")
	// ErrDuplicate is a unique constraint violation on insert.
	ErrDuplicate = errors.New("record already exists")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type Items interface {
	Create(ctx context.Context, it models.Item) (models.Item, error)
	GetByID(ctx context.Context, id int64) (models.Item, error)
	ListAvailable(ctx context.Context) ([]models.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	Update(ctx context.Context, it models.Item) (models.Item, error)
	UpdateStatus(ctx context.Context, id int64, status models.ItemStatus) error
	// Transition sets status only when the item is currently in `from`,
	// failing with ErrConflict otherwise.
	Transition(ctx context.Context, id int64, from, to models.ItemStatus) error
	ListByCategories(ctx context.Context, categories []string) ([]models.Item, error)
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type Transactions interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	// GetByID returns the transaction with buyer, seller and item nested.
	GetByID(ctx context.Context, id int64) (models.Transaction, error)
	// Transition moves the row from one status to another and fails with
	// ErrConflict when the row is not currently in `from`.
	Transition(ctx context.Context, id int64, from, to models.TransactionStatus) error
	ListPendingBySeller(ctx context.Context, sellerID int64) ([]models.Transaction, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]models.Transaction, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]models.Transaction, error)
	// SellerTotals returns the number of transactions and the revenue of
	// completed ones.
	SellerTotals(ctx context.Context, sellerID int64) (count, revenue int64, err error)
}

type Rentals interface {
	Create(ctx context.Context, r models.Rental) (models.Rental, error)
	// GetByID returns the rental with renter and item nested.
	GetByID(ctx context.Context, id int64) (models.Rental, error)
	Transition(ctx context.Context, id int64, from, to models.RentalStatus) error
	ListPendingByOwner(ctx context.Context, ownerID int64) ([]models.Rental, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Rental, error)
	ListByRenter(ctx context.Context, renterID int64) ([]models.Rental, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type Notifications interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	CreateMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error)
}

type Carts interface {
	// Add inserts the entry or, when the user already has the item in the
	// cart, increments its quantity. created reports which happened.
	Add(ctx context.Context, userID, itemID int64, quantity int) (entry models.CartItem, created bool, err error)
	Delete(ctx context.Context, id int64) error
	// ListByUser returns the entries with their item nested.
	ListByUser(ctx context.Context, userID int64) ([]models.CartItem, error)
	Clear(ctx context.Context, userID int64) error
}

type Wishlists interface {
	// Add fails with ErrDuplicate when the item is already listed.
	Add(ctx context.Context, userID, itemID int64) (models.WishlistEntry, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]models.WishlistEntry, error)
}

type Reviews interface {
	Create(ctx context.Context, r models.Review) (models.Review, error)
	ListByItem(ctx context.Context, itemID int64) ([]models.Review, error)
}

// Store groups the repositories bound to one connection or one transaction.
type Store interface {
	Users() Users
	Items() Items
	Transactions() Transactions
	Rentals() Rentals
	Notifications() Notifications
	Carts() Carts
	Wishlists() Wishlists
	Reviews() Reviews
}

// UnitOfWork runs fn against a Store bound to a single database transaction.
// It commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}
