package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/baharkarakas/campus-closet/internal/auth"
	"github.com/baharkarakas/campus-closet/internal/models"
	repo "github.com/baharkarakas/campus-closet/internal/repository"
)

type Signup struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type Session struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         models.User `json:"user"`
}

type UserService struct {
	r  repo.Users
	tm *auth.TokenManager
}

func NewUserService(r repo.Users, tm *auth.TokenManager) *UserService {
	return &UserService{r: r, tm: tm}
}

func (s *UserService) Signup(ctx context.Context, in Signup) (models.User, error) {
	u := models.User{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Role:  models.Role(in.Role),
	}
	if err := u.Validate(); err != nil {
		return models.User{}, invalidf("%s", err.Error())
	}
	if len(in.Password) < auth.MinPasswordLen {
		return models.User{}, invalidf("Password must be at least %d characters", auth.MinPasswordLen)
	}

	_, err := s.r.GetByEmail(ctx, u.Email)
	if err == nil {
		return models.User{}, invalidf("User already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash
	u.URNID = uuid.NewString()
	created, err := s.r.Create(ctx, u)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, invalidf("User already exists")
	}
	return created, err
}

func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.r.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return Session{}, invalidf("Invalid credentials")
	}
	if err != nil {
		return Session{}, err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return Session{}, invalidf("Invalid credentials")
	}
	return s.session(u)
}

// Refresh trades a refresh token for a new pair. The user is reloaded so a
// role change takes effect.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return Session{}, invalidf("Invalid refresh token")
	}
	u, err := s.r.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return Session{}, invalidf("Invalid refresh token")
	}
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

func (s *UserService) session(u models.User) (Session, error) {
	pair, err := s.tm.GeneratePair(u.ID, string(u.Role))
	if err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn(),
		User:         u,
	}, nil
}
