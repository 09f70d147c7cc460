package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/models"
	"github.com/baharkarakas/campus-closet/internal/services"
)

type InteractionService interface {
	CreateBuyRequest(ctx context.Context, in services.BuyRequest) (models.Transaction, error)
	CreateRentRequest(ctx context.Context, in services.RentRequest) (models.Rental, error)
	Respond(ctx context.Context, kind services.RequestKind, id int64, action services.Action) (any, error)
	PendingForSeller(ctx context.Context, sellerID int64) (services.Requests, error)
	RequestsForUser(ctx context.Context, userID int64) (services.Requests, error)
	EndRental(ctx context.Context, id int64) (models.Rental, error)
}

type InteractionHandler struct {
	svc InteractionService
}

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type buyReq struct {
	BuyerID int64 `json:"buyerId" validate:"required,gt=0"`
	ItemID  int64 `json:"itemId" validate:"required,gt=0"`
}

type rentReq struct {
	RenterID  int64  `json:"renterId" validate:"required,gt=0"`
	ItemID    int64  `json:"itemId" validate:"required,gt=0"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// action is checked by the service so a bad value gets "Invalid action".
type respondReq struct {
	Action string `json:"action"`
}

func (h *InteractionHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req buyReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	trx, err := h.svc.CreateBuyRequest(r.Context(), services.BuyRequest{BuyerID: req.BuyerID, ItemID: req.ItemID})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, trx)
}

func (h *InteractionHandler) Rent(w http.ResponseWriter, r *http.Request) {
	var req rentReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	rental, err := h.svc.CreateRentRequest(r.Context(), services.RentRequest{
		RenterID:  req.RenterID,
		ItemID:    req.ItemID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rental)
}

func (h *InteractionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	kind := services.RequestKind(r.URL.Query().Get("type"))
	if !kind.Valid() {
		writeErr(w, r, services.InvalidRequest("Invalid request type"))
		return
	}
	var req respondReq
	// an empty body leaves the action blank and the service rejects it
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, r, services.InvalidRequest("Invalid JSON body"))
		return
	}
	out, err := h.svc.Respond(r.Context(), kind, id, services.Action(req.Action))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *InteractionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sellerId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := h.svc.PendingForSeller(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *InteractionHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := h.svc.RequestsForUser(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *InteractionHandler) EndRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "rentalId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := h.svc.EndRental(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "rental": out})
}
