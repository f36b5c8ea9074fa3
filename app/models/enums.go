package models

import (
	"fmt"
	"strings"
)

// Role is the authorization level of an identity.
type Role string

const (
	RoleUser   Role = "USER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole accepts any casing; blank input defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case "":
		return RoleUser, nil
	case RoleUser, RoleEditor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Tier is a subscription level. It affects cart pricing.
type Tier string

const (
	TierFree      Tier = "Free"
	TierPremium   Tier = "Premium"
	TierUnlimited Tier = "Unlimited"
)

// ParseTier accepts any casing and returns the canonical capitalized form.
// There is no default: unknown or blank values fail.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree, nil
	case "premium":
		return TierPremium, nil
	case "unlimited":
		return TierUnlimited, nil
	default:
		return "", fmt.Errorf("unknown subscription type %q", s)
	}
}

// Purchasable reports whether the tier can be bought through a subscription.
func (t Tier) Purchasable() bool {
	return t == TierPremium || t == TierUnlimited
}

// BillingCycle decides how far a subscription's expiration moves.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

func ParseBillingCycle(s string) (BillingCycle, error) {
	switch c := BillingCycle(strings.ToLower(strings.TrimSpace(s))); c {
	case BillingMonthly, BillingYearly:
		return c, nil
	default:
		return "", fmt.Errorf("unknown billing cycle %q", s)
	}
}

// PurchaseMode is the cart variant of a comic: the physical original or a
// digital copy.
type PurchaseMode string

const (
	PurchaseOriginal PurchaseMode = "ORIGINAL"
	PurchaseDigital  PurchaseMode = "DIGITAL"
)

// ParsePurchaseMode defaults blank input to PurchaseOriginal.
func ParsePurchaseMode(s string) (PurchaseMode, error) {
	switch m := PurchaseMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return PurchaseOriginal, nil
	case PurchaseOriginal, PurchaseDigital:
		return m, nil
	default:
		return "", fmt.Errorf("unknown purchase type %q", s)
	}
}

// ComicType tells whether a comic exists physically or only digitally.
type ComicType string

const (
	ComicPhysicalCopy ComicType = "PHYSICAL_COPY"
	ComicOnlyDigital  ComicType = "ONLY_DIGITAL"
)

// ParseComicType defaults blank input to ComicPhysicalCopy.
func ParseComicType(s string) (ComicType, error) {
	switch c := ComicType(strings.ToUpper(strings.TrimSpace(s))); c {
	case "":
		return ComicPhysicalCopy, nil
	case ComicPhysicalCopy, ComicOnlyDigital:
		return c, nil
	default:
		return "", fmt.Errorf("unknown comic type %q", s)
	}
}

// CollectionKind names one of the per-owner singleton collections.
type CollectionKind string

const (
	KindCart     CollectionKind = "cart"
	KindWishlist CollectionKind = "wishlist"
	KindLibrary  CollectionKind = "library"
)

// HasQuantity is true only for carts; wishlists and libraries are
// membership sets.
func (k CollectionKind) HasQuantity() bool { return k == KindCart }
