package models

import "time"

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalActive    RentalStatus = "active"
	RentalCancelled RentalStatus = "cancelled"
	RentalReturned  RentalStatus = "returned"
)

type Rental struct {
	ID        int64        `json:"id"`
	RenterID  int64        `json:"renterId"`
	ItemID    int64        `json:"itemId"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	TotalRent int64        `json:"totalRent"`
	Deposit   int64        `json:"deposit"`
	Status    RentalStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`

	Renter *UserSummary `json:"renter,omitempty"`
	Item   *Item        `json:"item,omitempty"`
}
