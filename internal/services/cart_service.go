package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/campus-closet/internal/metrics"
	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
	"github.com/baharkarakas/campus-closet/internal/worker"
)

type Checkout struct {
	Transactions []models.Transaction `json:"transactions"`
}

// CartService is the direct purchase path: items bought at checkout skip the
// seller's accept step.
type CartService struct {
	store repo.Store
	uow   repo.UnitOfWork
	out   *dispatcher
}

func NewCartService(store repo.Store, uow repo.UnitOfWork, pub Publisher, wp *worker.Pool) *CartService {
	return &CartService{store: store, uow: uow, out: newDispatcher(pub, wp)}
}

// AddToCart puts an available item in the cart, or raises its quantity when
// it is already there. created is false in the latter case.
func (s *CartService) AddToCart(ctx context.Context, userID, itemID int64, quantity int) (models.CartItem, bool, error) {
	if quantity < 1 {
		return models.CartItem{}, false, invalidf("Quantity must be at least 1")
	}
	item, err := s.store.Items().GetByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !item.Available()) {
		return models.CartItem{}, false, invalidf("Item not available")
	}
	if err != nil {
		return models.CartItem{}, false, err
	}
	return s.store.Carts().Add(ctx, userID, itemID, quantity)
}

func (s *CartService) RemoveFromCart(ctx context.Context, id int64) error {
	err := s.store.Carts().Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return notFoundf("Cart item not found")
	}
	return err
}

func (s *CartService) Cart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return s.store.Carts().ListByUser(ctx, userID)
}

// Checkout sells every item in the cart in one unit of work. Each item moves
// from available to sold and gets a completed transaction, sellers are
// notified and the cart is emptied. One unavailable item aborts all of it.
func (s *CartService) Checkout(ctx context.Context, userID int64) (Checkout, error) {
	var (
		out   Checkout
		notes []models.Notification
	)
	err := s.uow.WithinTx(ctx, func(tx repo.Store) error {
		cart, err := tx.Carts().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return invalidf("Cart is empty")
		}

		out.Transactions = make([]models.Transaction, 0, len(cart))
		pending := make([]models.Notification, 0, len(cart))
		for _, ci := range cart {
			item := ci.Item
			if item == nil {
				return invalidf("Item %d not available", ci.ItemID)
			}
			err := tx.Items().Transition(ctx, item.ID, models.ItemAvailable, models.ItemSold)
			if errors.Is(err, repo.ErrConflict) {
				return invalidf("Item %d not available", item.ID)
			}
			if err != nil {
				return fmt.Errorf("mark item %d sold: %w", item.ID, err)
			}
			trx, err := tx.Transactions().Create(ctx, models.Transaction{
				BuyerID:  userID,
				SellerID: item.OwnerID,
				ItemID:   item.ID,
				Amount:   item.Price,
				Status:   models.TxnCompleted,
			})
			if err != nil {
				return err
			}
			sold := *item
			sold.Status = models.ItemSold
			trx.Item = &sold
			out.Transactions = append(out.Transactions, trx)
			pending = append(pending, models.Notification{
				UserID:  item.OwnerID,
				Message: fmt.Sprintf("%q was sold to user %d at checkout.", item.Name, userID),
				Type:    models.NoteItemSold,
			})
		}

		if notes, err = tx.Notifications().CreateMany(ctx, pending); err != nil {
			return err
		}
		return tx.Carts().Clear(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidRequest) {
			metrics.RequestsFailed.WithLabelValues("checkout").Inc()
		}
		return Checkout{}, err
	}

	metrics.CheckoutItems.Add(float64(len(out.Transactions)))
	slog.InfoContext(ctx, "cart checked out", "user_id", userID, "items", len(out.Transactions))
	s.out.send(notes...)
	return out, nil
}
