package arthur

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToTicks returns the exact integer price/tickSize. Returns ErrPrecision if
// price is not an integer multiple of tickSize.
func ToTicks(price, tickSize decimal.Decimal) (*big.Int, error) {
	return exactQuotient(price, tickSize)
}

// ToLots returns the exact integer qty/lotSize. Returns ErrPrecision if qty
// is not an integer multiple of lotSize.
func ToLots(qty, lotSize decimal.Decimal) (*big.Int, error) {
	return exactQuotient(qty, lotSize)
}

func exactQuotient(v, unit decimal.Decimal) (*big.Int, error) {
	if unit.IsZero() {
		return nil, fmt.Errorf("%w: zero tick/lot size", ErrPrecision)
	}
	q, r := v.QuoRem(unit, 0)
	if !r.IsZero() {
		return nil, fmt.Errorf("%w: %s is not an exact multiple of %s", ErrPrecision, v.String(), unit.String())
	}
	return q.BigInt(), nil
}

// DecToInts splits d into (v, s) such that d == v * 10^(-s), with trailing
// zeros stripped from v (s minimized) and v fitting into a signed byte.
// Used for tick_size/lot_size encoding in snapshot headers.
func DecToInts(d decimal.Decimal) (int8, int8, error) {
	coeff := d.Coefficient()
	scale := -d.Exponent()

	ten := big.NewInt(10)
	rem := new(big.Int)
	for coeff.Sign() != 0 {
		rem.Mod(coeff, ten)
		if rem.Sign() != 0 {
			break
		}
		coeff.Div(coeff, ten)
		scale--
	}

	if !coeff.IsInt64() || coeff.Int64() < -128 || coeff.Int64() > 127 {
		return 0, 0, fmt.Errorf("arthur: dec_to_ints: coefficient %s does not fit a signed byte", coeff.String())
	}
	if scale < -128 || scale > 127 {
		return 0, 0, fmt.Errorf("arthur: dec_to_ints: scale %d does not fit a signed byte", scale)
	}
	return int8(coeff.Int64()), int8(scale), nil
}

// IntsToDec is the inverse of DecToInts: v * 10^(-s).
func IntsToDec(v, s int8) decimal.Decimal {
	return decimal.NewFromBigInt(big.NewInt(int64(v)), -int32(s))
}

// MaxPriceBits returns the bit length of the largest integer tick count
// among levels, given tickSize. Returns 0 for an empty slice.
func MaxPriceBits(tickSize decimal.Decimal, levels []Level) (int, error) {
	max := 0
	for _, lvl := range levels {
		ticks, err := ToTicks(lvl.Price, tickSize)
		if err != nil {
			return 0, err
		}
		if bl := ticks.BitLen(); bl > max {
			max = bl
		}
	}
	return max, nil
}

// MaxQtyBits returns the bit length of the largest integer lot count among
// levels, given lotSize. Returns 0 for an empty slice.
func MaxQtyBits(lotSize decimal.Decimal, levels []Level) (int, error) {
	max := 0
	for _, lvl := range levels {
		lots, err := ToLots(lvl.Qty, lotSize)
		if err != nil {
			return 0, err
		}
		if bl := lots.BitLen(); bl > max {
			max = bl
		}
	}
	return max, nil
}
