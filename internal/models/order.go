package models

import "time"

type OrderStatus string

const (
	// Order statuses (drink pickup flow)
	OrderStatusPending   OrderStatus = "PENDING"   // Placed, payment not yet confirmed
	OrderStatusPaid      OrderStatus = "PAID"      // Payment confirmed
	OrderStatusCancelled OrderStatus = "CANCELLED" // Cancelled by the customer, terminal
)

// CanTransitionTo reports whether the state machine permits moving from s
// to next. CANCELLED is terminal. Re-confirming a PAID order is allowed so
// that payment confirmation stays idempotent.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == OrderStatusCancelled {
		return false
	}
	switch next {
	case OrderStatusPaid:
		return s == OrderStatusPending || s == OrderStatusPaid
	case OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Reference  string      `gorm:"index" json:"reference"`
	UserID     uint        `gorm:"index;not null" json:"user_id"`
	User       User        `json:"-"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Restaurant string      `json:"restaurant"`
	PickupAt   time.Time   `json:"pickup_at"`
	Status     OrderStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	// Monetary columns are frozen at creation time; they are never
	// recomputed from a later lookup snapshot.
	Total     float64   `json:"total"`
	VATAmount float64   `json:"vat_amount"`
	Discount  float64   `json:"discount"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	Flavour     string  `json:"flavour"`
	Topping     string  `json:"topping"`
	Consistency string  `json:"consistency"`
	Qty         int     `gorm:"not null" json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}
