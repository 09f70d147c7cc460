package models

import "time"

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnCancelled TransactionStatus = "cancelled"
)

// Transaction is a purchase request; once accepted it is the sale record.
type Transaction struct {
	ID        int64             `json:"id"`
	BuyerID   int64             `json:"buyerId"`
	SellerID  int64             `json:"sellerId"`
	ItemID    int64             `json:"itemId"`
	Amount    int64             `json:"amount"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`

	Buyer  *UserSummary `json:"buyer,omitempty"`
	Seller *UserSummary `json:"seller,omitempty"`
	Item   *Item        `json:"item,omitempty"`
}
