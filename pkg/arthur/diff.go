package arthur

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// EncodeDiff encodes a nonzero-qty level update: a single packed integer
// [lots : (8*L-pbits) bits | ticks : pbits bits], where L is chosen as the
// minimal byte count that fits both fields. Returns ErrOverflow if ticks
// does not fit the context's pbits.
func EncodeDiff(ctx *Context, price, qty decimal.Decimal) ([]byte, error) {
	ticks, err := ToTicks(price, ctx.TickSize())
	if err != nil {
		return nil, err
	}
	lots, err := ToLots(qty, ctx.LotSize())
	if err != nil {
		return nil, err
	}
	pbits := int(ctx.Pbits())
	if ticks.BitLen() > pbits {
		return nil, fmt.Errorf("%w: diff ticks exceed pbits", ErrOverflow)
	}

	total := pbits + lots.BitLen()
	L := (total + 7) / 8
	if L < 1 {
		L = 1
	}
	lotWidth := 8*L - pbits

	return Pack([]*big.Int{lots, ticks}, []int{lotWidth, pbits})
}

// DecodeDiff decodes a diff payload given the current pbits. lotWidth is
// derived from the payload length itself (8*len(payload) - pbits).
func DecodeDiff(ctx *Context, payload []byte) (ticks, lots *big.Int, err error) {
	pbits := int(ctx.Pbits())
	lotWidth := 8*len(payload) - pbits
	if lotWidth < 0 {
		return nil, nil, fmt.Errorf("%w: diff payload shorter than pbits", ErrCorruptStream)
	}
	vals, err := Unpack(payload, []int{lotWidth, pbits})
	if err != nil {
		return nil, nil, err
	}
	return vals[1], vals[0], nil
}

// EncodeRemoval encodes a level removal: a single packed integer whose
// right-most pbits bits are the tick count, in the minimal byte count
// ceil(pbits/8) (at least 1 byte, since a frame payload must be nonempty).
func EncodeRemoval(ctx *Context, price decimal.Decimal) ([]byte, error) {
	ticks, err := ToTicks(price, ctx.TickSize())
	if err != nil {
		return nil, err
	}
	pbits := int(ctx.Pbits())
	if ticks.BitLen() > pbits {
		return nil, fmt.Errorf("%w: removal ticks exceed pbits", ErrOverflow)
	}
	L := (pbits + 7) / 8
	if L < 1 {
		L = 1
	}
	padWidth := 8*L - pbits
	return Pack([]*big.Int{big.NewInt(0), ticks}, []int{padWidth, pbits})
}

// DecodeRemoval decodes a removal payload given the current pbits.
func DecodeRemoval(ctx *Context, payload []byte) (ticks *big.Int, err error) {
	pbits := int(ctx.Pbits())
	padWidth := 8*len(payload) - pbits
	if padWidth < 0 {
		return nil, fmt.Errorf("%w: removal payload shorter than pbits", ErrCorruptStream)
	}
	vals, err := Unpack(payload, []int{padWidth, pbits})
	if err != nil {
		return nil, err
	}
	return vals[1], nil
}
