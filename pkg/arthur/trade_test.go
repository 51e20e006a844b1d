package arthur

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTradeRoundTrip_NumericID(t *testing.T) {
	ctx := testContext(t, 24, 20)
	price := decimal.RequireFromString("100000.52")
	qty := decimal.RequireFromString("0.52")
	id := TradeID{Numeric: true, Num: big.NewInt(26558224)}

	payload, err := EncodeTrade(ctx, price, qty, true, id)
	if err != nil {
		t.Fatalf("encode_trade: %v", err)
	}
	ticks, lots, makerIsBid, gotID, err := DecodeTrade(ctx, payload)
	if err != nil {
		t.Fatalf("decode_trade: %v", err)
	}
	if !makerIsBid {
		t.Fatalf("expected maker_is_bid=true")
	}
	wantTicks, _ := ToTicks(price, ctx.TickSize())
	wantLots, _ := ToLots(qty, ctx.LotSize())
	if ticks.Cmp(wantTicks) != 0 || lots.Cmp(wantLots) != 0 {
		t.Fatalf("ticks/lots mismatch: got %s/%s want %s/%s", ticks, lots, wantTicks, wantLots)
	}
	if !gotID.Numeric || gotID.Num.Cmp(id.Num) != 0 {
		t.Fatalf("trade id mismatch: got %+v want %+v", gotID, id)
	}
}

func TestTradeRoundTrip_StringID(t *testing.T) {
	ctx := testContext(t, 24, 20)
	price := decimal.RequireFromString("102000.52")
	qty := decimal.RequireFromString("0.02345")
	id := TradeID{Numeric: false, Str: "9c5d7509-3c2b-4769-81fe-9915f5dd9515"}

	payload, err := EncodeTrade(ctx, price, qty, false, id)
	if err != nil {
		t.Fatalf("encode_trade: %v", err)
	}
	_, _, makerIsBid, gotID, err := DecodeTrade(ctx, payload)
	if err != nil {
		t.Fatalf("decode_trade: %v", err)
	}
	if makerIsBid {
		t.Fatalf("expected maker_is_bid=false")
	}
	if gotID.Numeric || gotID.Str != id.Str {
		t.Fatalf("trade id mismatch: got %+v want %+v", gotID, id)
	}
}

func TestTrade_OverflowOnLots(t *testing.T) {
	ctx := testContext(t, 24, 4) // qbits=4, max lots value 15
	price := decimal.RequireFromString("1.00")
	qty := decimal.RequireFromString("1000.0")
	id := TradeID{Numeric: true, Num: big.NewInt(1)}
	if _, err := EncodeTrade(ctx, price, qty, true, id); err == nil {
		t.Fatalf("expected overflow error, got nil")
	}
}
