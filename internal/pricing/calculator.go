package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Fallback prices for attributes missing from the price table. A stale
// client option list must not fail the whole quote.
const (
	defaultFlavourPrice     = 50.00
	defaultToppingPrice     = 10.00
	defaultConsistencyPrice = 0.00
)

var ErrInvalidCartItem = errors.New("invalid cart item")

type CartItem struct {
	Flavour     string `json:"flavour"`
	Topping     string `json:"topping"`
	Consistency string `json:"consistency"`
	Qty         int    `json:"qty"`
}

type PricedItem struct {
	CartItem
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type Quote struct {
	Items           []PricedItem `json:"items"`
	Subtotal        float64      `json:"subtotal"`
	DiscountPercent float64      `json:"discount_percent"`
	Discount        float64      `json:"discount"`
	VATPercent      float64      `json:"vat_percent"`
	VAT             float64      `json:"vat"`
	Total           float64      `json:"total"`
}

// ComputeQuote prices a cart against the given snapshot. Deterministic and
// side-effect free; an empty cart yields an all-zero quote.
//
// The discount tier is chosen by iterating the configured tiers in order
// and keeping the last one whose conditions hold. VAT applies to the
// pre-discount subtotal.
func ComputeQuote(items []CartItem, priorOrders int, snap *Snapshot) (*Quote, error) {
	subtotal := decimal.Zero
	priced := make([]PricedItem, 0, len(items))

	for i, item := range items {
		if item.Qty < 1 {
			return nil, fmt.Errorf("%w: item %d has qty %d, want a positive integer", ErrInvalidCartItem, i, item.Qty)
		}

		unit := decimal.NewFromFloat(snap.price("flavour", item.Flavour, defaultFlavourPrice)).
			Add(decimal.NewFromFloat(snap.price("topping", item.Topping, defaultToppingPrice))).
			Add(decimal.NewFromFloat(snap.price("consistency", item.Consistency, defaultConsistencyPrice)))

		line := unit.Mul(decimal.NewFromInt(int64(item.Qty)))
		subtotal = subtotal.Add(line)

		priced = append(priced, PricedItem{
			CartItem:  item,
			UnitPrice: unit.Round(2).InexactFloat64(),
			LineTotal: line.Round(2).InexactFloat64(),
		})
	}

	// Last matching tier wins, even when configuration orders tiers
	// unexpectedly.
	discountPercent := 0.0
	for _, tier := range snap.Config.DiscountTiers {
		if priorOrders >= tier.MinOrders && len(items) >= tier.MinDrinksPerOrder {
			discountPercent = tier.Percent
		}
	}

	hundred := decimal.NewFromInt(100)
	discount := subtotal.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred).Round(2)
	vat := subtotal.Mul(decimal.NewFromFloat(snap.Config.VATPercent)).Div(hundred).Round(2)
	subtotal = subtotal.Round(2)
	total := subtotal.Sub(discount).Add(vat).Round(2)

	return &Quote{
		Items:           priced,
		Subtotal:        subtotal.InexactFloat64(),
		DiscountPercent: discountPercent,
		Discount:        discount.InexactFloat64(),
		VATPercent:      snap.Config.VATPercent,
		VAT:             vat.InexactFloat64(),
		Total:           total.InexactFloat64(),
	}, nil
}

// TotalDrinks is the drink count checked against the maxDrinks config at
// order creation.
func TotalDrinks(items []CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Qty
	}
	return total
}
