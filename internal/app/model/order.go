package model

import "time"

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is one completed purchase as kept in the order-history slot.
// The persisted schema is the array of {id, date, total, status}.
type Order struct {
	ID     string      `json:"id"`
	Date   time.Time   `json:"date"`
	Total  float64     `json:"total"`
	Status OrderStatus `json:"status"`
}

// OrderTotals breaks a checkout total down for the review step.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// CheckoutInfo carries the shipping and payment fields collected by the
// checkout form. Payment is simulated; the card fields are never charged.
type CheckoutInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}
