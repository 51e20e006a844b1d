package arthur

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testContext(t *testing.T, pbits, qbits uint8) *Context {
	t.Helper()
	ctx := NewContext()
	ctx.setSnapshotWidths(pbits, qbits, decimal.RequireFromString("0.01"), decimal.RequireFromString("0.000001"))
	return ctx
}

func TestDiffRoundTrip(t *testing.T) {
	ctx := testContext(t, 24, 20)
	price := decimal.RequireFromString("125000.01")
	qty := decimal.RequireFromString("20.3045")

	payload, err := EncodeDiff(ctx, price, qty)
	if err != nil {
		t.Fatalf("encode_diff: %v", err)
	}
	ticks, lots, err := DecodeDiff(ctx, payload)
	if err != nil {
		t.Fatalf("decode_diff: %v", err)
	}
	wantTicks, _ := ToTicks(price, ctx.TickSize())
	wantLots, _ := ToLots(qty, ctx.LotSize())
	if ticks.Cmp(wantTicks) != 0 {
		t.Fatalf("ticks mismatch: got %s want %s", ticks, wantTicks)
	}
	if lots.Cmp(wantLots) != 0 {
		t.Fatalf("lots mismatch: got %s want %s", lots, wantLots)
	}
}

func TestDiff_OverflowOnTicks(t *testing.T) {
	ctx := testContext(t, 4, 20) // pbits=4, max ticks value 15
	price := decimal.RequireFromString("125000.01")
	qty := decimal.RequireFromString("1")
	if _, err := EncodeDiff(ctx, price, qty); err == nil {
		t.Fatalf("expected overflow error, got nil")
	}
}

func TestRemovalRoundTrip(t *testing.T) {
	ctx := testContext(t, 24, 20)
	price := decimal.RequireFromString("100000.52")

	payload, err := EncodeRemoval(ctx, price)
	if err != nil {
		t.Fatalf("encode_removal: %v", err)
	}
	ticks, err := DecodeRemoval(ctx, payload)
	if err != nil {
		t.Fatalf("decode_removal: %v", err)
	}
	wantTicks, _ := ToTicks(price, ctx.TickSize())
	if ticks.Cmp(wantTicks) != 0 {
		t.Fatalf("ticks mismatch: got %s want %s", ticks, wantTicks)
	}
}

func TestDiff_SmallLotsUseFewerBytesThanQbits(t *testing.T) {
	ctx := testContext(t, 24, 64) // qbits wide, but qty is tiny
	price := decimal.RequireFromString("1.00")
	qty := decimal.RequireFromString("0.000001") // 1 lot

	payload, err := EncodeDiff(ctx, price, qty)
	if err != nil {
		t.Fatalf("encode_diff: %v", err)
	}
	// pbits=24 alone needs 3 bytes; qbits=64 would force >=11 bytes if fixed-width,
	// but lots=1 needs only 1 bit, so total should stay at ceil((24+1)/8)=4 bytes.
	if len(payload) != 4 {
		t.Fatalf("expected 4-byte payload, got %d", len(payload))
	}
}
