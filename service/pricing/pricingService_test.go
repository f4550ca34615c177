package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

func TestEffectiveUnitPrice_NotOnSale(t *testing.T) {
	p := New(Default())
	now := time.Now()
	start := tp(now.Add(-time.Hour))

	got := p.EffectiveUnitPrice(Sale{
		Price:              20,
		IsOnSale:           false,
		DiscountPercentage: 50,
		DiscountStart:      start,
	}, now)
	require.Equal(t, 20.0, got)
}

func TestEffectiveUnitPrice_WindowInactive(t *testing.T) {
	p := New(Default())
	now := time.Now()

	// sale not started yet
	got := p.EffectiveUnitPrice(Sale{
		Price: 20, IsOnSale: true, DiscountPercentage: 25,
		DiscountStart: tp(now.Add(time.Hour)),
	}, now)
	require.Equal(t, 20.0, got)

	// sale already over
	got = p.EffectiveUnitPrice(Sale{
		Price: 20, IsOnSale: true, DiscountPercentage: 25,
		DiscountStart: tp(now.Add(-48 * time.Hour)),
		DiscountEnd:   tp(now.Add(-time.Hour)),
	}, now)
	require.Equal(t, 20.0, got)

	// start never set
	got = p.EffectiveUnitPrice(Sale{
		Price: 20, IsOnSale: true, DiscountPercentage: 25,
	}, now)
	require.Equal(t, 20.0, got)
}

func TestEffectiveUnitPrice_ActiveWindow(t *testing.T) {
	p := New(Default())
	now := time.Now()

	got := p.EffectiveUnitPrice(Sale{
		Price: 20, IsOnSale: true, DiscountPercentage: 25,
		DiscountStart: tp(now.Add(-time.Hour)),
		DiscountEnd:   tp(now.Add(time.Hour)),
	}, now)
	require.Equal(t, 15.0, got)

	// open-ended sale
	got = p.EffectiveUnitPrice(Sale{
		Price: 20, IsOnSale: true, DiscountPercentage: 25,
		DiscountStart: tp(now.Add(-time.Hour)),
	}, now)
	require.Equal(t, 15.0, got)
}

func TestOrderDiscount_Volume(t *testing.T) {
	p := New(Default())

	require.Equal(t, 0.0, p.OrderDiscount(75, 4, false))
	require.Equal(t, 3.75, p.OrderDiscount(75, 5, false))
	require.True(t, p.VolumeEligible(5))
	require.False(t, p.VolumeEligible(4))
}

func TestOrderDiscount_Stacking(t *testing.T) {
	p := New(Default())

	// volume only
	require.Equal(t, 5.0, p.OrderDiscount(100, 5, false))
	// loyalty only
	require.Equal(t, 10.0, p.OrderDiscount(100, 1, true))
	// both stack additively
	require.Equal(t, 15.0, p.OrderDiscount(100, 5, true))
	// zero subtotal never discounts
	require.Equal(t, 0.0, p.OrderDiscount(0, 10, true))
}

func TestLoyaltyEligible(t *testing.T) {
	p := New(Default())
	if p.LoyaltyEligible(9) {
		t.Fatal("9 completed orders should not unlock loyalty")
	}
	if !p.LoyaltyEligible(10) {
		t.Fatal("10 completed orders should unlock loyalty")
	}
}

// $20 book, 25% off, active window, 5 copies: subtotal 75, volume 3.75.
func TestCheckoutScenario(t *testing.T) {
	p := New(Default())
	now := time.Now()

	unit := p.EffectiveUnitPrice(Sale{
		Price: 20, IsOnSale: true, DiscountPercentage: 25,
		DiscountStart: tp(now.Add(-time.Minute)),
		DiscountEnd:   tp(now.Add(time.Minute)),
	}, now)
	require.Equal(t, 15.0, unit)

	subtotal := unit * 5
	require.Equal(t, 75.0, subtotal)

	discount := p.OrderDiscount(subtotal, 5, false)
	require.Equal(t, 3.75, discount)
	require.Equal(t, 71.25, subtotal-discount)
}
