// Package pricing computes cart unit prices from a comic's base price, the
// purchase mode and the buyer's subscription tier.
//
//	| mode     | Unlimited  | other tiers |
//	|----------|------------|-------------|
//	| DIGITAL  | 0.00       | base × 0.75 |
//	| ORIGINAL | base × 0.5 | base        |
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/bazinga/storefront/app/models"
)

var (
	digitalFactor         = decimal.RequireFromString("0.75")
	unlimitedOriginalRate = decimal.RequireFromString("0.50")
)

// UnitPrice returns the price of one unit rounded half-up to cents. A nil
// base prices as zero.
func UnitPrice(base *decimal.Decimal, mode models.PurchaseMode, tier models.Tier) decimal.Decimal {
	price := decimal.Zero
	if base != nil {
		price = *base
	}

	switch {
	case mode == models.PurchaseDigital && tier == models.TierUnlimited:
		price = decimal.Zero
	case mode == models.PurchaseDigital:
		price = price.Mul(digitalFactor)
	case tier == models.TierUnlimited:
		price = price.Mul(unlimitedOriginalRate)
	}

	return price.Round(2)
}
