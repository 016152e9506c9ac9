package notifier

import (
	"time"

	"github.com/lemawe69/milky-shaky-backend/internal/pricing"
)

// OrderSummary is the fully-formed value the lifecycle handlers emit for
// delivery. Amounts come from the persisted order, never from a fresh
// quote.
type OrderSummary struct {
	OrderID      uint
	Reference    string
	CustomerName string
	Items        []pricing.PricedItem
	Subtotal     float64
	Discount     float64
	VAT          float64
	Total        float64
	Restaurant   string
	PickupAt     time.Time
	Cancelled    bool
}

// Notifier delivers order receipts out-of-band. Delivery failure must
// never fail the order; callers dispatch in a goroutine and log errors.
type Notifier interface {
	SendOrderEmail(recipientEmail string, summary OrderSummary) error
	SendOrderSMS(toPhoneNumber string, orderID uint, totalAmount float64) error
}

// Service is the live implementation backed by SES email and the
// Africa's Talking SMS gateway.
type Service struct{}

func New() *Service {
	return &Service{}
}
