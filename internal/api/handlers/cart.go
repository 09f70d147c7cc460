package handlers

import (
	"context"
	"net/http"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/models"
	"github.com/baharkarakas/campus-closet/internal/services"
)

type CartService interface {
	AddToCart(ctx context.Context, userID, itemID int64, quantity int) (models.CartItem, bool, error)
	RemoveFromCart(ctx context.Context, id int64) error
	Cart(ctx context.Context, userID int64) ([]models.CartItem, error)
	Checkout(ctx context.Context, userID int64) (services.Checkout, error)
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type addToCartReq struct {
	UserID   int64 `json:"userId" validate:"required,gt=0"`
	ItemID   int64 `json:"itemId" validate:"required,gt=0"`
	Quantity *int  `json:"quantity"`
}

type checkoutReq struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// Add answers 201 for a new cart entry and 200 when an existing one grew.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	entry, created, err := h.svc.AddToCart(r.Context(), req.UserID, req.ItemID, qty)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.WriteJSON(w, status, entry)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.svc.RemoveFromCart(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Removed from cart"})
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	cart, err := h.svc.Cart(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := h.svc.Checkout(r.Context(), req.UserID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}
