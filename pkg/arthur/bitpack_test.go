package arthur

import (
	"math/big"
	"testing"
)

func TestPackUnpack_FastPath(t *testing.T) {
	values := []*big.Int{big.NewInt(5), big.NewInt(1), big.NewInt(200)}
	widths := []int{4, 1, 9}

	packed, err := Pack(values, widths)
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	wantBytes := 2 // ceil(14/8)
	if len(packed) != wantBytes {
		t.Fatalf("expected %d bytes, got %d (%x)", wantBytes, len(packed), packed)
	}

	got, err := Unpack(packed, widths)
	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	for i, v := range got {
		if v.Cmp(values[i]) != 0 {
			t.Fatalf("value %d: got %s want %s", i, v, values[i])
		}
	}
}

func TestPackUnpack_BigPath(t *testing.T) {
	big200 := new(big.Int).Lsh(big.NewInt(1), 200)
	values := []*big.Int{big200, big.NewInt(7)}
	widths := []int{201, 4}

	packed, err := Pack(values, widths)
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	got, err := Unpack(packed, widths)
	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	if got[0].Cmp(big200) != 0 {
		t.Fatalf("big value mismatch: got %s want %s", got[0], big200)
	}
	if got[1].Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("small value mismatch: got %s want 7", got[1])
	}
}

func TestPack_OverflowRejected(t *testing.T) {
	_, err := Pack([]*big.Int{big.NewInt(16)}, []int{4})
	if err == nil {
		t.Fatalf("expected overflow error, got nil")
	}
}

func TestPack_EmptyWidths(t *testing.T) {
	packed, err := Pack(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(packed) != 0 {
		t.Fatalf("expected empty packed output, got %d bytes", len(packed))
	}
}

func TestUintUbytesRoundTrip(t *testing.T) {
	cases := []*big.Int{
		big.NewInt(0),
		big.NewInt(255),
		big.NewInt(256),
		new(big.Int).Lsh(big.NewInt(1), 128),
	}
	for _, n := range cases {
		b, err := UintToUbytes(n)
		if err != nil {
			t.Fatalf("uint_to_ubytes(%s): %v", n, err)
		}
		got := UbytesToUint(b)
		if got.Cmp(n) != 0 {
			t.Fatalf("round trip mismatch: got %s want %s", got, n)
		}
	}
}

func TestUintToUbytes_ZeroIsSingleByte(t *testing.T) {
	b, err := UintToUbytes(big.NewInt(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 1 || b[0] != 0 {
		t.Fatalf("expected single zero byte, got %x", b)
	}
}
