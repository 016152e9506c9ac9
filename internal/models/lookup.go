package models

import "time"

// Lookup types. Flavour, topping and consistency rows carry a price in
// Value; config rows carry numeric tuning values (vatPercent, maxDrinks).
const (
	LookupFlavour     = "flavour"
	LookupTopping     = "topping"
	LookupConsistency = "consistency"
	LookupConfig      = "config"
)

type Lookup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:VARCHAR(20);not null;uniqueIndex:idx_lookup_type_key" json:"type"`
	Key       string    `gorm:"not null;uniqueIndex:idx_lookup_type_key" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidLookupType(t string) bool {
	switch t {
	case LookupFlavour, LookupTopping, LookupConsistency, LookupConfig:
		return true
	}
	return false
}
