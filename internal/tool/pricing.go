package tool

import (
	"fmt"
	"strings"
)

// Pricing is the canonical commercial classification of a tool.
type Pricing string

const (
	PricingFree     Pricing = "Free"
	PricingPaid     Pricing = "Paid"
	PricingFreemium Pricing = "Freemium"
)

// Valid reports whether p is one of the three pricing tiers.
func (p Pricing) Valid() bool {
	switch p {
	case PricingFree, PricingPaid, PricingFreemium:
		return true
	}
	return false
}

// ParsePricing maps a case-insensitive tier name to a Pricing.
func ParsePricing(s string) (Pricing, error) {
	for _, p := range []Pricing{PricingFree, PricingPaid, PricingFreemium} {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pricing type %q", s)
}

// PricingFromLegacy converts the boolean is_free flag of older rows.
//
// false maps to Freemium, not Paid, mirroring the fallback the listing pages
// applied to legacy rows. Whether that is intended is still unconfirmed.
func PricingFromLegacy(isFree bool) Pricing {
	if isFree {
		return PricingFree
	}
	return PricingFreemium
}
