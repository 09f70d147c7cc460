package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/models"
	"github.com/baharkarakas/campus-closet/internal/services"
)

type NotificationService interface {
	Feed(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error)
}

type BuyerService interface {
	AddToWishlist(ctx context.Context, userID, itemID int64) (models.WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, id int64) error
	Wishlist(ctx context.Context, userID int64) ([]models.WishlistEntry, error)
	AddReview(ctx context.Context, in services.NewReview) (models.Review, error)
	ItemReviews(ctx context.Context, itemID int64) ([]models.Review, error)
}

type BuyerHandler struct {
	catalog CatalogService
	notes   NotificationService
	buyer   BuyerService
}

func NewBuyerHandler(catalog CatalogService, notes NotificationService, buyer BuyerService) *BuyerHandler {
	return &BuyerHandler{catalog: catalog, notes: notes, buyer: buyer}
}

type wishlistReq struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	ItemID int64 `json:"itemId" validate:"required,gt=0"`
}

// rating bounds are checked by the service.
type reviewReq struct {
	UserID  int64  `json:"userId" validate:"required,gt=0"`
	ItemID  int64  `json:"itemId" validate:"required,gt=0"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *BuyerHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.AvailableItems(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *BuyerHandler) Category(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.CategoryItems(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *BuyerHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	limit := queryInt(r, "limit", services.DefaultFeedLimit)
	offset := queryInt(r, "offset", 0)
	feed, err := h.notes.Feed(r.Context(), id, limit, offset)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, feed)
}

func (h *BuyerHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	entry, err := h.buyer.AddToWishlist(r.Context(), req.UserID, req.ItemID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, entry)
}

func (h *BuyerHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.buyer.RemoveFromWishlist(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Removed from wishlist"})
}

func (h *BuyerHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	list, err := h.buyer.Wishlist(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *BuyerHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	rv, err := h.buyer.AddReview(r.Context(), services.NewReview{
		UserID:  req.UserID,
		ItemID:  req.ItemID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rv)
}

func (h *BuyerHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "itemId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	list, err := h.buyer.ItemReviews(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}
