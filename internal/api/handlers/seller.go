package handlers

import (
	"context"
	"net/http"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/models"
	"github.com/baharkarakas/campus-closet/internal/services"
)

type CatalogService interface {
	AddItem(ctx context.Context, ownerID int64, in services.Listing) (models.Item, error)
	UpdateItem(ctx context.Context, id int64, in services.Listing) (models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	SellerItems(ctx context.Context, sellerID int64) ([]models.Item, error)
	AvailableItems(ctx context.Context) ([]models.Item, error)
	CategoryItems(ctx context.Context, slug string) ([]models.Item, error)
	SellerStats(ctx context.Context, sellerID int64) (services.SellerStats, error)
	SellerTransactions(ctx context.Context, sellerID int64) ([]models.Transaction, error)
	SellerRentals(ctx context.Context, sellerID int64) ([]models.Rental, error)
}

type SellerHandler struct {
	svc CatalogService
}

func NewSellerHandler(svc CatalogService) *SellerHandler {
	return &SellerHandler{svc: svc}
}

type listingReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
	Images      []string `json:"images"`
	Price       *int64   `json:"price" validate:"omitempty,gte=0"`
	RentPrice   *int64   `json:"rentPrice" validate:"omitempty,gte=0"`
	IsForRent   *bool    `json:"isForRent"`
}

func (l listingReq) listing() services.Listing {
	return services.Listing{
		Name:        l.Name,
		Description: l.Description,
		Category:    l.Category,
		Condition:   l.Condition,
		Images:      l.Images,
		Price:       l.Price,
		RentPrice:   l.RentPrice,
		IsForRent:   l.IsForRent,
	}
}

type addItemReq struct {
	SellerID    int64    `json:"sellerId" validate:"required,gt=0"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
	Price       int64    `json:"price" validate:"gte=0"`
	RentPrice   *int64   `json:"rentPrice" validate:"omitempty,gte=0"`
	IsForRent   bool     `json:"isForRent"`
}

func (h *SellerHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	it, err := h.svc.AddItem(r.Context(), req.SellerID, services.Listing{
		Name:        &req.Name,
		Description: &req.Description,
		Category:    &req.Category,
		Condition:   &req.Condition,
		Images:      req.Images,
		Price:       &req.Price,
		RentPrice:   req.RentPrice,
		IsForRent:   &req.IsForRent,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "item": it})
}

func (h *SellerHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var req listingReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	it, err := h.svc.UpdateItem(r.Context(), id, req.listing())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "item": it})
}

func (h *SellerHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Item deleted"})
}

func (h *SellerHandler) Items(w http.ResponseWriter, r *http.Request) {
	bySeller(w, r, h.svc.SellerItems)
}

func (h *SellerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	bySeller(w, r, h.svc.SellerStats)
}

func (h *SellerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	bySeller(w, r, h.svc.SellerTransactions)
}

func (h *SellerHandler) Rentals(w http.ResponseWriter, r *http.Request) {
	bySeller(w, r, h.svc.SellerRentals)
}

func bySeller[T any](w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (T, error)) {
	id, err := pathID(r, "sellerId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := fn(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
