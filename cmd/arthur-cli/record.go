package main

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/handikong/arthur/pkg/arthur"
)

// record is the line-delimited JSON shape cmd/arthur-cli reads/writes. It is
// a flat, string-typed mirror of arthur.Message so prices/qtys/trade ids
// round-trip exactly through JSON without float precision loss.
type record struct {
	Kind string `json:"kind"` // "snapshot", "diff", "trade", "disconnect"

	Timestamp int64 `json:"ts"`

	// snapshot
	Bids      []levelRecord `json:"bids,omitempty"`
	Asks      []levelRecord `json:"asks,omitempty"`
	TickSize  string        `json:"tick_size,omitempty"`
	LotSize   string        `json:"lot_size,omitempty"`
	Redundant bool          `json:"redundant,omitempty"`

	// diff
	Price string `json:"price,omitempty"`
	Qty   string `json:"qty,omitempty"`
	IsBid bool   `json:"is_bid,omitempty"`

	// trade
	MakerIsBid bool   `json:"maker_is_bid,omitempty"`
	TradeID    string `json:"trade_id,omitempty"`
	Numeric    bool   `json:"numeric,omitempty"`
}

type levelRecord struct {
	Price string `json:"price"`
	Qty   string `json:"qty"`
}

func toMessage(r record) (arthur.Message, error) {
	switch r.Kind {
	case "snapshot":
		tick, err := decimal.NewFromString(r.TickSize)
		if err != nil {
			return nil, fmt.Errorf("tick_size: %w", err)
		}
		lot, err := decimal.NewFromString(r.LotSize)
		if err != nil {
			return nil, fmt.Errorf("lot_size: %w", err)
		}
		bids, err := toLevels(r.Bids)
		if err != nil {
			return nil, err
		}
		asks, err := toLevels(r.Asks)
		if err != nil {
			return nil, err
		}
		return &arthur.BookSnapshot{
			Bids: bids, Asks: asks,
			Timestamp: r.Timestamp,
			TickSize:  tick, LotSize: lot,
			Redundant: r.Redundant,
		}, nil

	case "diff":
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		qty, err := decimal.NewFromString(r.Qty)
		if err != nil {
			return nil, fmt.Errorf("qty: %w", err)
		}
		return &arthur.BookDiff{Price: price, Qty: qty, IsBid: r.IsBid, Timestamp: r.Timestamp}, nil

	case "trade":
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		qty, err := decimal.NewFromString(r.Qty)
		if err != nil {
			return nil, fmt.Errorf("qty: %w", err)
		}
		id := arthur.TradeID{Numeric: r.Numeric}
		if r.Numeric {
			n, ok := new(big.Int).SetString(r.TradeID, 10)
			if !ok {
				return nil, fmt.Errorf("trade_id: %q is not a valid integer", r.TradeID)
			}
			id.Num = n
		} else {
			id.Str = r.TradeID
		}
		return &arthur.Trade{
			Price: price, Qty: qty, MakerIsBid: r.MakerIsBid,
			ID: id, Timestamp: r.Timestamp,
		}, nil

	case "disconnect":
		return &arthur.Disconnect{Timestamp: r.Timestamp}, nil

	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}
}

func toLevels(in []levelRecord) ([]arthur.Level, error) {
	out := make([]arthur.Level, len(in))
	for i, lr := range in {
		price, err := decimal.NewFromString(lr.Price)
		if err != nil {
			return nil, fmt.Errorf("level[%d].price: %w", i, err)
		}
		qty, err := decimal.NewFromString(lr.Qty)
		if err != nil {
			return nil, fmt.Errorf("level[%d].qty: %w", i, err)
		}
		out[i] = arthur.Level{Price: price, Qty: qty}
	}
	return out, nil
}

func fromMessage(m arthur.Message) record {
	switch v := m.(type) {
	case *arthur.BookSnapshot:
		return record{
			Kind: "snapshot", Timestamp: v.Timestamp,
			Bids: fromLevels(v.Bids), Asks: fromLevels(v.Asks),
			TickSize: v.TickSize.String(), LotSize: v.LotSize.String(),
			Redundant: v.Redundant,
		}
	case *arthur.BookDiff:
		return record{
			Kind: "diff", Timestamp: v.Timestamp,
			Price: v.Price.String(), Qty: v.Qty.String(), IsBid: v.IsBid,
		}
	case *arthur.Trade:
		r := record{
			Kind: "trade", Timestamp: v.Timestamp,
			Price: v.Price.String(), Qty: v.Qty.String(), MakerIsBid: v.MakerIsBid,
			Numeric: v.ID.Numeric,
		}
		if v.ID.Numeric {
			r.TradeID = v.ID.Num.String()
		} else {
			r.TradeID = v.ID.Str
		}
		return r
	case *arthur.Disconnect:
		return record{Kind: "disconnect", Timestamp: v.Timestamp}
	default:
		return record{Kind: "unknown"}
	}
}

func fromLevels(in []arthur.Level) []levelRecord {
	out := make([]levelRecord, len(in))
	for i, lvl := range in {
		out[i] = levelRecord{Price: lvl.Price.String(), Qty: lvl.Qty.String()}
	}
	return out
}
