package arthur

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// tradeFixedBytes returns the byte length of a trade's fixed packed part:
// ticks:pbits, lots:qbits, maker_side:1, numeric_id:1, byte-aligned.
func tradeFixedBytes(pbits, qbits int) int {
	return (pbits + qbits + 2 + 7) / 8
}

// EncodeTrade encodes a trade payload: the fixed packed part, followed by
// the byte-aligned trade id (little-endian unsigned bytes if numeric, raw
// UTF-8 bytes if a string). Returns ErrOverflow if ticks/lots exceed the
// context's current widths.
func EncodeTrade(ctx *Context, price, qty decimal.Decimal, makerIsBid bool, id TradeID) ([]byte, error) {
	ticks, err := ToTicks(price, ctx.TickSize())
	if err != nil {
		return nil, err
	}
	lots, err := ToLots(qty, ctx.LotSize())
	if err != nil {
		return nil, err
	}
	pbits := int(ctx.Pbits())
	qbits := int(ctx.Qbits())
	if ticks.BitLen() > pbits {
		return nil, fmt.Errorf("%w: trade ticks exceed pbits", ErrOverflow)
	}
	if lots.BitLen() > qbits {
		return nil, fmt.Errorf("%w: trade lots exceed qbits", ErrOverflow)
	}

	makerBit := int64(0)
	if makerIsBid {
		makerBit = 1
	}
	numericBit := int64(0)
	var tidBytes []byte
	if id.Numeric {
		numericBit = 1
		b, err := UintToUbytes(id.Num)
		if err != nil {
			return nil, fmt.Errorf("arthur: trade id: %w", err)
		}
		tidBytes = b
	} else {
		tidBytes = []byte(id.Str)
	}

	fixed, err := Pack(
		[]*big.Int{ticks, lots, big.NewInt(makerBit), big.NewInt(numericBit)},
		[]int{pbits, qbits, 1, 1},
	)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(fixed)+len(tidBytes))
	out = append(out, fixed...)
	out = append(out, tidBytes...)
	return out, nil
}

// DecodeTrade decodes a TRADE frame payload given the current context.
func DecodeTrade(ctx *Context, payload []byte) (ticks, lots *big.Int, makerIsBid bool, id TradeID, err error) {
	pbits := int(ctx.Pbits())
	qbits := int(ctx.Qbits())
	fixedLen := tradeFixedBytes(pbits, qbits)
	if len(payload) < fixedLen {
		return nil, nil, false, TradeID{}, fmt.Errorf("%w: trade payload shorter than fixed part", ErrCorruptStream)
	}

	vals, err := Unpack(payload[:fixedLen], []int{pbits, qbits, 1, 1})
	if err != nil {
		return nil, nil, false, TradeID{}, err
	}
	ticks = vals[0]
	lots = vals[1]
	makerIsBid = vals[2].Sign() != 0
	numeric := vals[3].Sign() != 0

	tidBytes := payload[fixedLen:]
	if numeric {
		id = TradeID{Numeric: true, Num: UbytesToUint(tidBytes)}
	} else {
		id = TradeID{Numeric: false, Str: string(tidBytes)}
	}
	return ticks, lots, makerIsBid, id, nil
}
