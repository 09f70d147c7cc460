package models

import "time"

type CartItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ItemID    int64     `json:"itemId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`

	Item *Item `json:"item,omitempty"`
}

type WishlistEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ItemID    int64     `json:"itemId"`
	CreatedAt time.Time `json:"createdAt"`

	Item *Item `json:"item,omitempty"`
}
