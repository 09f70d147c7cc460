package handlers

import (
	"context"
	"net/http"

	"github.com/baharkarakas/campus-closet/internal/api/httpx"
	"github.com/baharkarakas/campus-closet/internal/models"
	"github.com/baharkarakas/campus-closet/internal/services"
)

type UserService interface {
	Signup(ctx context.Context, in services.Signup) (models.User, error)
	Login(ctx context.Context, email, password string) (services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (services.Session, error)
}

type AuthHandler struct {
	svc UserService
}

func NewAuthHandler(svc UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := h.svc.Signup(r.Context(), services.Signup{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "user": u})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	sess, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}
