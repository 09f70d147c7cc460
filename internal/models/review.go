package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ItemID    int64     `json:"itemId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	User *UserSummary `json:"user,omitempty"`
}
