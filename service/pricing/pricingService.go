// Package pricing derives effective unit prices (time-windowed sales)
// and order-level discounts (volume + loyalty, additive).
package pricing

import (
	"math"
	"time"
)

type Config struct {
	VolumeThreshold  int64   // cart item count that unlocks the volume discount
	VolumePct        float64 // volume discount, percent of subtotal
	LoyaltyThreshold int64   // completed orders that unlock the loyalty discount
	LoyaltyPct       float64 // loyalty discount, percent of subtotal
}

func Default() Config {
	return Config{
		VolumeThreshold:  5,
		VolumePct:        5,
		LoyaltyThreshold: 10,
		LoyaltyPct:       10,
	}
}

// Sale is the subset of book fields the price calculation reads.
type Sale struct {
	Price              float64
	IsOnSale           bool
	DiscountPercentage float64
	DiscountStart      *time.Time
	DiscountEnd        *time.Time
}

type Pricer struct{ cfg Config }

func New(cfg Config) *Pricer { return &Pricer{cfg: cfg} }

// SaleActive reports whether the sale window applies at now. An unset
// DiscountEnd keeps the sale open-ended.
func SaleActive(s Sale, now time.Time) bool {
	if !s.IsOnSale || s.DiscountPercentage <= 0 {
		return false
	}
	if s.DiscountStart == nil || now.Before(*s.DiscountStart) {
		return false
	}
	if s.DiscountEnd != nil && now.After(*s.DiscountEnd) {
		return false
	}
	return true
}

// EffectiveUnitPrice returns the discounted price when the sale window
// is active at now, otherwise the plain price.
func (p *Pricer) EffectiveUnitPrice(s Sale, now time.Time) float64 {
	if !SaleActive(s, now) {
		return s.Price
	}
	return round2(s.Price * (1 - s.DiscountPercentage/100))
}

// OrderDiscount returns the discount amount (not the discounted total).
// Volume and loyalty percentages stack.
func (p *Pricer) OrderDiscount(subtotal float64, itemCount int64, loyal bool) float64 {
	if subtotal <= 0 {
		return 0
	}
	var pct float64
	if p.VolumeEligible(itemCount) {
		pct += p.cfg.VolumePct
	}
	if loyal {
		pct += p.cfg.LoyaltyPct
	}
	return round2(subtotal * pct / 100)
}

func (p *Pricer) VolumeEligible(itemCount int64) bool {
	return itemCount >= p.cfg.VolumeThreshold
}

func (p *Pricer) LoyaltyEligible(completedOrders int64) bool {
	return completedOrders >= p.cfg.LoyaltyThreshold
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
