package arthur

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToTicks_Exact(t *testing.T) {
	price := decimal.RequireFromString("125000.01")
	tick := decimal.RequireFromString("0.01")
	ticks, err := ToTicks(price, tick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticks.String() != "12500001" {
		t.Fatalf("expected 12500001, got %s", ticks)
	}
}

func TestToTicks_Inexact(t *testing.T) {
	price := decimal.RequireFromString("125000.015")
	tick := decimal.RequireFromString("0.01")
	if _, err := ToTicks(price, tick); err == nil {
		t.Fatalf("expected precision error, got nil")
	}
}

func TestDecToIntsRoundTrip(t *testing.T) {
	cases := []string{"0.01", "0.000001", "100", "-5", "0.5"}
	for _, s := range cases {
		d := decimal.RequireFromString(s)
		v, scale, err := DecToInts(d)
		if err != nil {
			t.Fatalf("dec_to_ints(%s): %v", s, err)
		}
		got := IntsToDec(v, scale)
		if !got.Equal(d) {
			t.Fatalf("round trip mismatch for %s: got %s", s, got)
		}
	}
}

func TestDecToInts_StripsTrailingZeros(t *testing.T) {
	d := decimal.RequireFromString("0.0100") // coefficient 100, exponent -4
	v, scale, err := DecToInts(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 || scale != 2 {
		t.Fatalf("expected (1, 2), got (%d, %d)", v, scale)
	}
}

func TestMaxPriceBits(t *testing.T) {
	tick := decimal.RequireFromString("0.01")
	levels := []Level{
		{Price: decimal.RequireFromString("100.00"), Qty: decimal.Zero},
		{Price: decimal.RequireFromString("102000.52"), Qty: decimal.Zero},
	}
	bits, err := MaxPriceBits(tick, levels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 102000.52 / 0.01 = 10200052, which needs 24 bits.
	if bits != 24 {
		t.Fatalf("expected 24 bits, got %d", bits)
	}
}

func TestMaxQtyBits_Empty(t *testing.T) {
	lot := decimal.RequireFromString("0.000001")
	bits, err := MaxQtyBits(lot, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bits != 0 {
		t.Fatalf("expected 0 for empty levels, got %d", bits)
	}
}
