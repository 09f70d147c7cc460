package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baharkarakas/campus-closet/internal/metrics"
	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
	"github.com/baharkarakas/campus-closet/internal/worker"
)

type RequestKind string

const (
	KindTransaction RequestKind = "transaction"
	KindRental      RequestKind = "rental"
)

func (k RequestKind) Valid() bool { return k == KindTransaction || k == KindRental }

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

type BuyRequest struct {
	BuyerID int64
	ItemID  int64
}

type RentRequest struct {
	RenterID  int64
	ItemID    int64
	StartDate time.Time
	EndDate   time.Time
}

// Requests is the dashboard projection: purchase and rental requests side by
// side, each newest first.
type Requests struct {
	Transactions []models.Transaction `json:"transactions"`
	Rentals      []models.Rental      `json:"rentals"`
}

// InteractionService owns the buy/rent request lifecycle:
//
//	pending --accept--> completed (transaction) / active (rental)
//	pending --decline--> cancelled
//	active --end--> returned (rental only)
//
// Accepts and ends run in one unit of work together with the item status
// change and their notifications. Declines are a single status write followed
// by a separate notification write.
type InteractionService struct {
	store repo.Store
	uow   repo.UnitOfWork
	out   *dispatcher
}

func NewInteractionService(store repo.Store, uow repo.UnitOfWork, pub Publisher, wp *worker.Pool) *InteractionService {
	return &InteractionService{store: store, uow: uow, out: newDispatcher(pub, wp)}
}

// ----------------- create -----------------

func (s *InteractionService) CreateBuyRequest(ctx context.Context, in BuyRequest) (models.Transaction, error) {
	item, err := s.store.Items().GetByID(ctx, in.ItemID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !item.Available()) {
		return models.Transaction{}, invalidf("Item not available")
	}
	if err != nil {
		return models.Transaction{}, err
	}

	trx, err := s.store.Transactions().Create(ctx, models.Transaction{
		BuyerID:  in.BuyerID,
		SellerID: item.OwnerID,
		ItemID:   item.ID,
		Amount:   item.Price,
		Status:   models.TxnPending,
	})
	if err != nil {
		return models.Transaction{}, err
	}
	metrics.RequestsCreated.WithLabelValues(string(KindTransaction)).Inc()

	note, err := s.store.Notifications().Create(ctx, models.Notification{
		UserID:  item.OwnerID,
		Message: fmt.Sprintf("Purchase request received for %q from user %d", item.Name, in.BuyerID),
		Type:    models.NotePurchaseRequest,
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.out.send(note)

	return s.store.Transactions().GetByID(ctx, trx.ID)
}

func (s *InteractionService) CreateRentRequest(ctx context.Context, in RentRequest) (models.Rental, error) {
	item, err := s.store.Items().GetByID(ctx, in.ItemID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !item.Rentable()) {
		return models.Rental{}, invalidf("Item not available for rent")
	}
	if err != nil {
		return models.Rental{}, err
	}
	if !in.EndDate.After(in.StartDate) {
		return models.Rental{}, invalidf("End date must be after start date")
	}

	quote, err := QuoteRental(item, in.StartDate, in.EndDate)
	if err != nil {
		return models.Rental{}, err
	}
	rental, err := s.store.Rentals().Create(ctx, models.Rental{
		RenterID:  in.RenterID,
		ItemID:    item.ID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		TotalRent: quote.TotalRent,
		Deposit:   quote.Deposit,
		Status:    models.RentalPending,
	})
	if err != nil {
		return models.Rental{}, err
	}
	metrics.RequestsCreated.WithLabelValues(string(KindRental)).Inc()

	note, err := s.store.Notifications().Create(ctx, models.Notification{
		UserID:  item.OwnerID,
		Message: fmt.Sprintf("Rental request received for %q from user %d", item.Name, in.RenterID),
		Type:    models.NoteRentalRequest,
	})
	if err != nil {
		return models.Rental{}, err
	}
	s.out.send(note)

	return s.store.Rentals().GetByID(ctx, rental.ID)
}

// ----------------- respond -----------------

// Respond validates kind and action before touching storage, then resolves
// the pending request. The result is a models.Transaction or models.Rental.
func (s *InteractionService) Respond(ctx context.Context, kind RequestKind, id int64, action Action) (any, error) {
	if !kind.Valid() {
		return nil, invalidf("Invalid request type")
	}
	if action != ActionAccept && action != ActionDecline {
		return nil, invalidf("Invalid action")
	}
	if kind == KindTransaction {
		return s.RespondToTransaction(ctx, id, action)
	}
	return s.RespondToRental(ctx, id, action)
}

func (s *InteractionService) RespondToTransaction(ctx context.Context, id int64, action Action) (models.Transaction, error) {
	trx, err := s.store.Transactions().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, notFoundf("Transaction not found")
	}
	if err != nil {
		return models.Transaction{}, err
	}
	if trx.Status != models.TxnPending {
		return models.Transaction{}, invalidf("Transaction not pending")
	}

	if action == ActionDecline {
		return s.declineTransaction(ctx, trx)
	}

	var (
		out   models.Transaction
		notes []models.Notification
	)
	err = s.uow.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Transactions().Transition(ctx, id, models.TxnPending, models.TxnCompleted); err != nil {
			return err
		}
		if err := tx.Items().UpdateStatus(ctx, trx.ItemID, models.ItemSold); err != nil {
			return fmt.Errorf("mark item %d sold: %w", trx.ItemID, err)
		}
		name := itemName(trx.Item, trx.ItemID)
		created, err := tx.Notifications().CreateMany(ctx, []models.Notification{
			{
				UserID:  trx.BuyerID,
				Message: fmt.Sprintf("Your purchase for %q was accepted.", name),
				Type:    models.NotePurchaseAccepted,
			},
			{
				UserID:  trx.SellerID,
				Message: fmt.Sprintf("You confirmed sale of %q.", name),
				Type:    models.NoteSaleConfirmed,
			},
		})
		if err != nil {
			return err
		}
		notes = created
		out, err = tx.Transactions().GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repo.ErrConflict) {
		return models.Transaction{}, invalidf("Transaction not pending")
	}
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("accept_transaction").Inc()
		return models.Transaction{}, err
	}

	metrics.RequestsResolved.WithLabelValues(string(KindTransaction), string(ActionAccept)).Inc()
	slog.InfoContext(ctx, "purchase accepted", "transaction_id", id, "item_id", trx.ItemID)
	s.out.send(notes...)
	return out, nil
}

func (s *InteractionService) declineTransaction(ctx context.Context, trx models.Transaction) (models.Transaction, error) {
	err := s.store.Transactions().Transition(ctx, trx.ID, models.TxnPending, models.TxnCancelled)
	if errors.Is(err, repo.ErrConflict) {
		return models.Transaction{}, invalidf("Transaction not pending")
	}
	if err != nil {
		return models.Transaction{}, err
	}
	metrics.RequestsResolved.WithLabelValues(string(KindTransaction), string(ActionDecline)).Inc()

	s.notifyAfterCommit(ctx, models.Notification{
		UserID:  trx.BuyerID,
		Message: fmt.Sprintf("Your purchase request for item %d was declined.", trx.ItemID),
		Type:    models.NotePurchaseDeclined,
	})
	return s.store.Transactions().GetByID(ctx, trx.ID)
}

func (s *InteractionService) RespondToRental(ctx context.Context, id int64, action Action) (models.Rental, error) {
	rental, err := s.store.Rentals().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Rental{}, notFoundf("Rental not found")
	}
	if err != nil {
		return models.Rental{}, err
	}
	if rental.Status != models.RentalPending {
		return models.Rental{}, invalidf("Rental not pending")
	}

	if action == ActionDecline {
		return s.declineRental(ctx, rental)
	}

	var (
		out   models.Rental
		notes []models.Notification
	)
	err = s.uow.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Rentals().Transition(ctx, id, models.RentalPending, models.RentalActive); err != nil {
			return err
		}
		if err := tx.Items().UpdateStatus(ctx, rental.ItemID, models.ItemRented); err != nil {
			return fmt.Errorf("mark item %d rented: %w", rental.ItemID, err)
		}
		owner, err := s.ownerOf(ctx, tx, rental)
		if err != nil {
			return err
		}
		name := itemName(rental.Item, rental.ItemID)
		created, err := tx.Notifications().CreateMany(ctx, []models.Notification{
			{
				UserID:  rental.RenterID,
				Message: fmt.Sprintf("Your rental for %q was approved.", name),
				Type:    models.NoteRentalApproved,
			},
			{
				UserID:  owner,
				Message: fmt.Sprintf("You approved rental for %q.", name),
				Type:    models.NoteRentalConfirmed,
			},
		})
		if err != nil {
			return err
		}
		notes = created
		out, err = tx.Rentals().GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repo.ErrConflict) {
		return models.Rental{}, invalidf("Rental not pending")
	}
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("accept_rental").Inc()
		return models.Rental{}, err
	}

	metrics.RequestsResolved.WithLabelValues(string(KindRental), string(ActionAccept)).Inc()
	slog.InfoContext(ctx, "rental approved", "rental_id", id, "item_id", rental.ItemID)
	s.out.send(notes...)
	return out, nil
}

func (s *InteractionService) declineRental(ctx context.Context, rental models.Rental) (models.Rental, error) {
	err := s.store.Rentals().Transition(ctx, rental.ID, models.RentalPending, models.RentalCancelled)
	if errors.Is(err, repo.ErrConflict) {
		return models.Rental{}, invalidf("Rental not pending")
	}
	if err != nil {
		return models.Rental{}, err
	}
	metrics.RequestsResolved.WithLabelValues(string(KindRental), string(ActionDecline)).Inc()

	s.notifyAfterCommit(ctx, models.Notification{
		UserID:  rental.RenterID,
		Message: fmt.Sprintf("Your rental request for item %d was declined.", rental.ItemID),
		Type:    models.NoteRentalDeclined,
	})
	return s.store.Rentals().GetByID(ctx, rental.ID)
}

// EndRental closes an active rental and puts the item back on the market.
func (s *InteractionService) EndRental(ctx context.Context, id int64) (models.Rental, error) {
	rental, err := s.store.Rentals().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Rental{}, notFoundf("Rental not found")
	}
	if err != nil {
		return models.Rental{}, err
	}
	if rental.Status != models.RentalActive {
		return models.Rental{}, invalidf("Rental not active")
	}

	var (
		out  models.Rental
		note models.Notification
	)
	err = s.uow.WithinTx(ctx, func(tx repo.Store) error {
		if err := tx.Rentals().Transition(ctx, id, models.RentalActive, models.RentalReturned); err != nil {
			return err
		}
		if err := tx.Items().UpdateStatus(ctx, rental.ItemID, models.ItemAvailable); err != nil {
			return fmt.Errorf("release item %d: %w", rental.ItemID, err)
		}
		var err error
		note, err = tx.Notifications().Create(ctx, models.Notification{
			UserID:  rental.RenterID,
			Message: fmt.Sprintf("Your rental for %q has ended.", itemName(rental.Item, rental.ItemID)),
			Type:    models.NoteRentalReturned,
		})
		if err != nil {
			return err
		}
		out, err = tx.Rentals().GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repo.ErrConflict) {
		return models.Rental{}, invalidf("Rental not active")
	}
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("end_rental").Inc()
		return models.Rental{}, err
	}
	s.out.send(note)
	return out, nil
}

// ----------------- queries -----------------

func (s *InteractionService) PendingForSeller(ctx context.Context, sellerID int64) (Requests, error) {
	trxs, err := s.store.Transactions().ListPendingBySeller(ctx, sellerID)
	if err != nil {
		return Requests{}, err
	}
	rentals, err := s.store.Rentals().ListPendingByOwner(ctx, sellerID)
	if err != nil {
		return Requests{}, err
	}
	return Requests{Transactions: trxs, Rentals: rentals}, nil
}

func (s *InteractionService) RequestsForUser(ctx context.Context, userID int64) (Requests, error) {
	trxs, err := s.store.Transactions().ListByBuyer(ctx, userID)
	if err != nil {
		return Requests{}, err
	}
	rentals, err := s.store.Rentals().ListByRenter(ctx, userID)
	if err != nil {
		return Requests{}, err
	}
	return Requests{Transactions: trxs, Rentals: rentals}, nil
}

// ----------------- helpers -----------------

// notifyAfterCommit writes a notification whose primary change is already
// committed. A failure here cannot undo that change, so it is only logged.
func (s *InteractionService) notifyAfterCommit(ctx context.Context, n models.Notification) {
	created, err := s.store.Notifications().Create(ctx, n)
	if err != nil {
		slog.ErrorContext(ctx, "notification write", "user_id", n.UserID, "type", n.Type, "err", err)
		return
	}
	s.out.send(created)
}

func (s *InteractionService) ownerOf(ctx context.Context, tx repo.Store, r models.Rental) (int64, error) {
	if r.Item != nil {
		return r.Item.OwnerID, nil
	}
	item, err := tx.Items().GetByID(ctx, r.ItemID)
	if err != nil {
		return 0, err
	}
	return item.OwnerID, nil
}

func itemName(it *models.Item, id int64) string {
	if it != nil && it.Name != "" {
		return it.Name
	}
	return fmt.Sprintf("item %d", id)
}
