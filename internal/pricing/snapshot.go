package pricing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

type DiscountTier struct {
	MinOrders         int     `json:"min_orders"`
	MinDrinksPerOrder int     `json:"min_drinks_per_order"`
	Percent           float64 `json:"percent"`
}

type Config struct {
	VATPercent    float64
	MaxDrinks     int
	DiscountTiers []DiscountTier
	// Values carries config rows that are neither a known key nor
	// numeric, as raw strings.
	Values map[string]string
}

// DefaultConfig returns the hard defaults that config lookup rows merge
// over, last write wins.
func DefaultConfig() Config {
	return Config{
		VATPercent: 15,
		MaxDrinks:  10,
		DiscountTiers: []DiscountTier{
			{MinOrders: 3, MinDrinksPerOrder: 1, Percent: 5},
			{MinOrders: 10, MinDrinksPerOrder: 2, Percent: 10},
			{MinOrders: 20, MinDrinksPerOrder: 3, Percent: 15},
		},
		Values: map[string]string{},
	}
}

func (c *Config) apply(key, value string) {
	switch key {
	case "vatPercent":
		if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			c.VATPercent = v
			return
		}
	case "maxDrinks":
		if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			c.MaxDrinks = v
			return
		}
	case "discountTiers":
		var tiers []DiscountTier
		if err := json.Unmarshal([]byte(value), &tiers); err == nil && len(tiers) > 0 {
			c.DiscountTiers = tiers
			return
		}
	}
	c.Values[key] = value
}

// Snapshot is the pricing input read as of the moment of calculation.
// Orders priced from an older snapshot keep their totals.
type Snapshot struct {
	PriceTable map[string]float64
	Config     Config
}

func priceKey(lookupType, key string) string {
	return lookupType + "-" + key
}

func (s *Snapshot) price(lookupType, key string, fallback float64) float64 {
	if v, ok := s.PriceTable[priceKey(lookupType, key)]; ok {
		return v
	}
	return fallback
}

// LoadSnapshot reads the merged numeric config and the active price rows.
// Config rows merge regardless of the active flag; only active rows feed
// the price table. Rows whose value does not parse as a price are skipped.
func LoadSnapshot(gdb *gorm.DB) (*Snapshot, error) {
	cfg := DefaultConfig()

	var configRows []models.Lookup
	if err := gdb.Where("type = ?", models.LookupConfig).Order("id ASC").Find(&configRows).Error; err != nil {
		return nil, fmt.Errorf("lookup store unavailable: %w", err)
	}
	for _, row := range configRows {
		cfg.apply(row.Key, row.Value)
	}

	priceTypes := []string{models.LookupFlavour, models.LookupTopping, models.LookupConsistency}

	var priceRows []models.Lookup
	if err := gdb.Where("type IN ? AND active = ?", priceTypes, true).Find(&priceRows).Error; err != nil {
		return nil, fmt.Errorf("lookup store unavailable: %w", err)
	}

	table := make(map[string]float64, len(priceRows))
	for _, row := range priceRows {
		price, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
		if err != nil {
			continue
		}
		table[priceKey(row.Type, row.Key)] = price
	}

	return &Snapshot{PriceTable: table, Config: cfg}, nil
}
