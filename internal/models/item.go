package models

import "time"

type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemSold      ItemStatus = "sold"
	ItemRented    ItemStatus = "rented"
)

type Item struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Condition   string     `json:"condition"`
	Images      []string   `json:"images"`
	Price       int64      `json:"price"`
	RentPrice   *int64     `json:"rentPrice"`
	IsForRent   bool       `json:"isForRent"`
	Status      ItemStatus `json:"status"`
	OwnerID     int64      `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Available reports whether the item can take a new buy or rent request.
func (i Item) Available() bool { return i.Status == ItemAvailable }

// Rentable is Available plus the owner having opted into renting.
func (i Item) Rentable() bool { return i.IsForRent && i.Available() }

// DailyRate treats a missing rent price as zero.
func (i Item) DailyRate() int64 {
	if i.RentPrice == nil {
		return 0
	}
	return *i.RentPrice
}
