package arthur

import (
	"fmt"
	"math/big"
)

// Pack concatenates values[0..n) MSB-first, each in its declared bit
// width, into the minimal byte sequence (ceil(sum(widths)/8) bytes),
// zero-padded on the right to the next byte boundary. Every value must fit
// its declared width, or Pack returns an error wrapping ErrOverflow.
//
// Widths above 64 bits in total fall back to a math/big accumulator; the
// common case (most snapshot levels, diffs, trades) stays under 64 total
// bits and uses a plain uint64 register.
func Pack(values []*big.Int, widths []int) ([]byte, error) {
	if len(values) != len(widths) {
		return nil, fmt.Errorf("arthur: pack: %d values but %d widths", len(values), len(widths))
	}
	total := 0
	for _, w := range widths {
		if w < 0 {
			return nil, fmt.Errorf("arthur: pack: negative bit width %d", w)
		}
		total += w
	}
	if total == 0 {
		return []byte{}, nil
	}
	if total <= 64 {
		return packFast(values, widths, total)
	}
	return packBig(values, widths, total)
}

func packFast(values []*big.Int, widths []int, total int) ([]byte, error) {
	var acc uint64
	for i, w := range widths {
		if w == 0 {
			continue
		}
		v := values[i]
		if v.Sign() < 0 {
			return nil, fmt.Errorf("arthur: pack: negative value at index %d", i)
		}
		if !v.IsUint64() || (w < 64 && v.Uint64()>>uint(w) != 0) {
			return nil, fmt.Errorf("%w: value at index %d does not fit %d bits", ErrOverflow, i, w)
		}
		acc = (acc << uint(w)) | v.Uint64()
	}
	nBytes := (total + 7) / 8
	pad := nBytes*8 - total
	acc <<= uint(pad)
	buf := make([]byte, nBytes)
	for i := 0; i < nBytes; i++ {
		shift := uint((nBytes - 1 - i) * 8)
		buf[i] = byte(acc >> shift)
	}
	return buf, nil
}

func packBig(values []*big.Int, widths []int, total int) ([]byte, error) {
	acc := new(big.Int)
	tmp := new(big.Int)
	for i, w := range widths {
		if w == 0 {
			continue
		}
		v := values[i]
		if v.Sign() < 0 {
			return nil, fmt.Errorf("arthur: pack: negative value at index %d", i)
		}
		if v.BitLen() > w {
			return nil, fmt.Errorf("%w: value at index %d does not fit %d bits", ErrOverflow, i, w)
		}
		acc.Lsh(acc, uint(w))
		acc.Or(acc, tmp.Set(v))
	}
	nBytes := (total + 7) / 8
	pad := nBytes*8 - total
	acc.Lsh(acc, uint(pad))
	buf := make([]byte, nBytes)
	acc.FillBytes(buf)
	return buf, nil
}

// Unpack is the inverse of Pack: it splits data into len(widths) unsigned
// values of the given bit widths, MSB-first, ignoring any trailing pad
// bits. data must contain at least ceil(sum(widths)/8) bytes (extra bytes
// are ignored).
func Unpack(data []byte, widths []int) ([]*big.Int, error) {
	total := 0
	for _, w := range widths {
		if w < 0 {
			return nil, fmt.Errorf("arthur: unpack: negative bit width %d", w)
		}
		total += w
	}
	needBytes := (total + 7) / 8
	if len(data) < needBytes {
		return nil, fmt.Errorf("%w: unpack needs %d bytes, got %d", ErrCorruptStream, needBytes, len(data))
	}
	if total == 0 {
		return make([]*big.Int, len(widths)), nil
	}
	if total <= 64 {
		return unpackFast(data, widths, total, needBytes)
	}
	return unpackBig(data, widths, total, needBytes)
}

func unpackFast(data []byte, widths []int, total, nBytes int) ([]*big.Int, error) {
	var acc uint64
	for i := 0; i < nBytes; i++ {
		acc = (acc << 8) | uint64(data[i])
	}
	pad := nBytes*8 - total
	acc >>= uint(pad)

	out := make([]*big.Int, len(widths))
	remaining := total
	for i, w := range widths {
		remaining -= w
		var v uint64
		if w > 0 {
			v = (acc >> uint(remaining)) & maskU64(w)
		}
		out[i] = new(big.Int).SetUint64(v)
	}
	return out, nil
}

func unpackBig(data []byte, widths []int, total, nBytes int) ([]*big.Int, error) {
	acc := new(big.Int).SetBytes(data[:nBytes])
	pad := nBytes*8 - total
	acc.Rsh(acc, uint(pad))

	out := make([]*big.Int, len(widths))
	remaining := total
	mask := new(big.Int)
	for i, w := range widths {
		remaining -= w
		v := new(big.Int)
		if w > 0 {
			v.Rsh(acc, uint(remaining))
			mask.Lsh(big.NewInt(1), uint(w))
			mask.Sub(mask, big.NewInt(1))
			v.And(v, mask)
		}
		out[i] = v
	}
	return out, nil
}

func maskU64(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// UintToUbytes returns the little-endian byte representation of a
// nonnegative integer with no leading (high-order) zero bytes: one byte if
// n < 256, etc. n == 0 encodes as a single zero byte.
func UintToUbytes(n *big.Int) ([]byte, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("arthur: uint_to_ubytes: negative value")
	}
	if n.Sign() == 0 {
		return []byte{0}, nil
	}
	be := n.Bytes() // big-endian, minimal length, no leading zero byte
	out := make([]byte, len(be))
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out, nil
}

// UbytesToUint is the inverse of UintToUbytes: little-endian bytes to a
// nonnegative integer.
func UbytesToUint(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
