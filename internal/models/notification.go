package models

import "time"

// Notification types written by the request workflow and cart checkout.
const (
	NotePurchaseRequest  = "purchase_request"
	NotePurchaseAccepted = "purchase_accepted"
	NoteSaleConfirmed    = "sale_confirmed"
	NotePurchaseDeclined = "purchase_declined"
	NoteRentalRequest    = "rental_request"
	NoteRentalApproved   = "rental_approved"
	NoteRentalConfirmed  = "rental_confirmed"
	NoteRentalDeclined   = "rental_declined"
	NoteRentalReturned   = "rental_returned"
	NoteItemSold         = "item_sold"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
