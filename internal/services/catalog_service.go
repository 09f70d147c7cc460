package services

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

// Listing carries seller-editable item fields. Nil fields are left unchanged
// on update.
type Listing struct {
	Name        *string
	Description *string
	Category    *string
	Condition   *string
	Images      []string
	Price       *int64
	RentPrice   *int64
	IsForRent   *bool
}

type SellerStats struct {
	TotalItems   int64 `json:"totalItems"`
	TotalSales   int64 `json:"totalSales"`
	TotalRentals int64 `json:"totalRentals"`
	TotalRevenue int64 `json:"totalRevenue"`
}

type CatalogService struct {
	store repo.Store
}

func NewCatalogService(store repo.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) AddItem(ctx context.Context, ownerID int64, in Listing) (models.Item, error) {
	it := models.Item{OwnerID: ownerID, Status: models.ItemAvailable, Images: []string{}}
	in.apply(&it)
	if err := checkItem(it); err != nil {
		return models.Item{}, err
	}
	return s.store.Items().Create(ctx, it)
}

func (s *CatalogService) UpdateItem(ctx context.Context, id int64, in Listing) (models.Item, error) {
	it, err := s.store.Items().GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Item{}, notFoundf("Item not found")
	}
	if err != nil {
		return models.Item{}, err
	}
	in.apply(&it)
	if err := checkItem(it); err != nil {
		return models.Item{}, err
	}
	out, err := s.store.Items().Update(ctx, it)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Item{}, notFoundf("Item not found")
	}
	return out, err
}

func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	err := s.store.Items().Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return notFoundf("Item not found")
	}
	return err
}

func (s *CatalogService) SellerItems(ctx context.Context, sellerID int64) ([]models.Item, error) {
	return s.store.Items().ListByOwner(ctx, sellerID)
}

func (s *CatalogService) AvailableItems(ctx context.Context) ([]models.Item, error) {
	return s.store.Items().ListAvailable(ctx)
}

// CategoryItems lists the items filed under a storefront category slug,
// newest first.
func (s *CatalogService) CategoryItems(ctx context.Context, slug string) ([]models.Item, error) {
	return s.store.Items().ListByCategories(ctx, models.CategoriesForSlug(slug))
}

func (s *CatalogService) SellerTransactions(ctx context.Context, sellerID int64) ([]models.Transaction, error) {
	return s.store.Transactions().ListBySeller(ctx, sellerID)
}

func (s *CatalogService) SellerRentals(ctx context.Context, sellerID int64) ([]models.Rental, error) {
	return s.store.Rentals().ListByOwner(ctx, sellerID)
}

func (s *CatalogService) SellerStats(ctx context.Context, sellerID int64) (SellerStats, error) {
	items, err := s.store.Items().CountByOwner(ctx, sellerID)
	if err != nil {
		return SellerStats{}, err
	}
	sales, revenue, err := s.store.Transactions().SellerTotals(ctx, sellerID)
	if err != nil {
		return SellerStats{}, err
	}
	rentals, err := s.store.Rentals().CountByOwner(ctx, sellerID)
	if err != nil {
		return SellerStats{}, err
	}
	return SellerStats{TotalItems: items, TotalSales: sales, TotalRentals: rentals, TotalRevenue: revenue}, nil
}

func (l Listing) apply(it *models.Item) {
	if l.Name != nil {
		it.Name = strings.TrimSpace(*l.Name)
	}
	if l.Description != nil {
		it.Description = *l.Description
	}
	if l.Category != nil {
		it.Category = *l.Category
	}
	if l.Condition != nil {
		it.Condition = *l.Condition
	}
	if l.Images != nil {
		it.Images = l.Images
	}
	if l.Price != nil {
		it.Price = *l.Price
	}
	if l.RentPrice != nil {
		it.RentPrice = l.RentPrice
	}
	if l.IsForRent != nil {
		it.IsForRent = *l.IsForRent
	}
}

func checkItem(it models.Item) error {
	switch {
	case it.Name == "":
		return invalidf("Item name is required")
	case it.Price < 0:
		return invalidf("Price must not be negative")
	case it.RentPrice != nil && *it.RentPrice < 0:
		return invalidf("Rent price must not be negative")
	}
	return nil
}
