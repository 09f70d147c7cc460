package services

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

// BuyerService covers the buyer's wishlist and item reviews.
type BuyerService struct {
	store repo.Store
}

func NewBuyerService(store repo.Store) *BuyerService {
	return &BuyerService{store: store}
}

func (s *BuyerService) AddToWishlist(ctx context.Context, userID, itemID int64) (models.WishlistEntry, error) {
	if err := s.requireItem(ctx, itemID); err != nil {
		return models.WishlistEntry{}, err
	}
	w, err := s.store.Wishlists().Add(ctx, userID, itemID)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.WishlistEntry{}, invalidf("Item already in wishlist")
	}
	return w, err
}

func (s *BuyerService) RemoveFromWishlist(ctx context.Context, id int64) error {
	err := s.store.Wishlists().Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return notFoundf("Wishlist entry not found")
	}
	return err
}

func (s *BuyerService) Wishlist(ctx context.Context, userID int64) ([]models.WishlistEntry, error) {
	return s.store.Wishlists().ListByUser(ctx, userID)
}

type NewReview struct {
	UserID  int64
	ItemID  int64
	Rating  int
	Comment string
}

func (s *BuyerService) AddReview(ctx context.Context, in NewReview) (models.Review, error) {
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return models.Review{}, invalidf("Rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if err := s.requireItem(ctx, in.ItemID); err != nil {
		return models.Review{}, err
	}
	return s.store.Reviews().Create(ctx, models.Review{
		UserID:  in.UserID,
		ItemID:  in.ItemID,
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
	})
}

func (s *BuyerService) ItemReviews(ctx context.Context, itemID int64) ([]models.Review, error) {
	if err := s.requireItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.store.Reviews().ListByItem(ctx, itemID)
}

func (s *BuyerService) requireItem(ctx context.Context, itemID int64) error {
	_, err := s.store.Items().GetByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFoundf("Item not found")
	}
	return err
}
