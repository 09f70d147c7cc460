package models

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleBoth   Role = "BOTH"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	URNID        string    `json:"urnId"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the public projection nested into transactions and rentals.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CanSell is true for SELLER and BOTH.
func (r Role) CanSell() bool { return r == RoleSeller || r == RoleBoth }

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Name)) < 2 {
		return errors.New("name too short")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	u.Role = Role(strings.ToUpper(string(u.Role)))
	if u.Role == "" {
		u.Role = RoleBuyer
	}
	switch u.Role {
	case RoleBuyer, RoleSeller, RoleBoth:
		return nil
	}
	return errors.New("invalid role")
}
