package models

import "time"

// PaymentMethod stores a card-like record for express checkout. No
// authorization is performed against a payment network; the card number
// and CVV are kept out of every JSON response.
type PaymentMethod struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Provider       string    `gorm:"default:'card'" json:"provider"`
	CardholderName string    `gorm:"not null" json:"cardholder_name"`
	CardNumber     string    `gorm:"not null" json:"-"`
	CVV            string    `gorm:"not null" json:"-"`
	Last4          string    `json:"last4"`
	Brand          string    `json:"brand"`
	ExpiryMonth    int       `json:"expiry_month"`
	ExpiryYear     int       `json:"expiry_year"`
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
