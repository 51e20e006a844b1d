package arthur

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const snapshotHeaderLen = 1 + 1 + 1 + 1 + 1 + 1 + 1 + 2 // redundant,pbits,qbits,tick,tick_scale,lot,lot_scale,nlevels

// snapshotWidths computes pbits/qbits for a snapshot per the writing
// algorithm: pbits covers the overflowing min price (if any) and the widest
// ask tick count; qbits covers the overflowing min qty (if any) and the
// widest lot count across both sides, plus one bit of headroom.
func snapshotWidths(tickSize, lotSize, minPrice, minQty decimal.Decimal, bids, asks []Level) (uint8, uint8, error) {
	minPriceBits := 0
	if !minPrice.IsZero() {
		ticks, err := ToTicks(minPrice, tickSize)
		if err != nil {
			return 0, 0, err
		}
		minPriceBits = ticks.BitLen()
	}
	askBits, err := MaxPriceBits(tickSize, asks)
	if err != nil {
		return 0, 0, err
	}
	pbits := minPriceBits
	if askBits > pbits {
		pbits = askBits
	}

	minQtyBits := 0
	if !minQty.IsZero() {
		lots, err := ToLots(minQty, lotSize)
		if err != nil {
			return 0, 0, err
		}
		minQtyBits = lots.BitLen()
	}
	all := make([]Level, 0, len(bids)+len(asks))
	all = append(all, bids...)
	all = append(all, asks...)
	qtyBits, err := MaxQtyBits(lotSize, all)
	if err != nil {
		return 0, 0, err
	}
	qbits := minQtyBits
	if 1+qtyBits > qbits {
		qbits = 1 + qtyBits
	}

	if pbits > 255 || qbits > 255 {
		return 0, 0, fmt.Errorf("arthur: snapshot widths exceed 255 bits (pbits=%d qbits=%d)", pbits, qbits)
	}
	return uint8(pbits), uint8(qbits), nil
}

// EncodeSnapshot encodes a BookSnapshot payload and returns it along with
// the new context it establishes. minPrice/minQty, when nonzero, come from an
// in-flight message that overflowed the prior context and must fit the new
// widths (overflow-recovery path in the driver).
func EncodeSnapshot(s *BookSnapshot, minPrice, minQty decimal.Decimal) ([]byte, *Context, error) {
	tick, tickScale, err := DecToInts(s.TickSize)
	if err != nil {
		return nil, nil, err
	}
	lot, lotScale, err := DecToInts(s.LotSize)
	if err != nil {
		return nil, nil, err
	}

	pbits, qbits, err := snapshotWidths(s.TickSize, s.LotSize, minPrice, minQty, s.Bids, s.Asks)
	if err != nil {
		return nil, nil, err
	}

	nlevels := len(s.Bids) + len(s.Asks)
	if nlevels > 0xFFFF {
		return nil, nil, fmt.Errorf("arthur: snapshot: %d levels exceeds 65535", nlevels)
	}

	buf := make([]byte, snapshotHeaderLen)
	if s.Redundant {
		buf[0] = 1
	}
	buf[1] = pbits
	buf[2] = qbits
	buf[3] = byte(tick)
	buf[4] = byte(tickScale)
	buf[5] = byte(lot)
	buf[6] = byte(lotScale)
	binary.BigEndian.PutUint16(buf[7:9], uint16(nlevels))

	values := make([]*big.Int, 0, nlevels*3)
	widths := make([]int, 0, nlevels*3)
	appendLevel := func(lvl Level, side int64) error {
		ticks, err := ToTicks(lvl.Price, s.TickSize)
		if err != nil {
			return err
		}
		lots, err := ToLots(lvl.Qty, s.LotSize)
		if err != nil {
			return err
		}
		if ticks.BitLen() > int(pbits) {
			return fmt.Errorf("%w: level price exceeds pbits", ErrOverflow)
		}
		if lots.BitLen() > int(qbits) {
			return fmt.Errorf("%w: level qty exceeds qbits", ErrOverflow)
		}
		values = append(values, ticks, big.NewInt(side), lots)
		widths = append(widths, int(pbits), 1, int(qbits))
		return nil
	}
	for _, lvl := range s.Bids {
		if err := appendLevel(lvl, 1); err != nil {
			return nil, nil, err
		}
	}
	for _, lvl := range s.Asks {
		if err := appendLevel(lvl, 0); err != nil {
			return nil, nil, err
		}
	}

	packed, err := Pack(values, widths)
	if err != nil {
		return nil, nil, err
	}
	buf = append(buf, packed...)

	ctx := NewContext()
	ctx.setSnapshotWidths(pbits, qbits, s.TickSize, s.LotSize)
	return buf, ctx, nil
}

// DecodeSnapshot decodes a SNAPSHOT frame payload, returning the message
// (without Timestamp set; the driver fills that in from the frame) and the
// new context it establishes.
func DecodeSnapshot(payload []byte) (*BookSnapshot, *Context, error) {
	if len(payload) < snapshotHeaderLen {
		return nil, nil, fmt.Errorf("%w: snapshot header truncated", ErrCorruptStream)
	}
	redundant := payload[0] != 0
	pbits := payload[1]
	qbits := payload[2]
	tick := int8(payload[3])
	tickScale := int8(payload[4])
	lot := int8(payload[5])
	lotScale := int8(payload[6])
	nlevels := int(binary.BigEndian.Uint16(payload[7:9]))

	tickSize := IntsToDec(tick, tickScale)
	lotSize := IntsToDec(lot, lotScale)

	body := payload[snapshotHeaderLen:]
	widths := make([]int, 0, nlevels*3)
	for i := 0; i < nlevels; i++ {
		widths = append(widths, int(pbits), 1, int(qbits))
	}
	values, err := Unpack(body, widths)
	if err != nil {
		return nil, nil, err
	}

	var bids, asks []Level
	for i := 0; i < nlevels; i++ {
		ticks := values[i*3]
		side := values[i*3+1]
		lots := values[i*3+2]
		lvl := Level{
			Price: decimal.NewFromBigInt(ticks, 0).Mul(tickSize),
			Qty:   decimal.NewFromBigInt(lots, 0).Mul(lotSize),
		}
		if side.Sign() != 0 {
			bids = append(bids, lvl)
		} else {
			asks = append(asks, lvl)
		}
	}

	snap := &BookSnapshot{
		Bids:      bids,
		Asks:      asks,
		TickSize:  tickSize,
		LotSize:   lotSize,
		Redundant: redundant,
	}
	ctx := NewContext()
	ctx.setSnapshotWidths(pbits, qbits, tickSize, lotSize)
	return snap, ctx, nil
}
