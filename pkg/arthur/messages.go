package arthur

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// MessageKind tags the logical message types accepted by Writer.Write and
// produced by Reader.Read.
type MessageKind int

const (
	KindSnapshot MessageKind = iota
	KindDiff
	KindTrade
	KindDisconnect
)

// Message is the tagged sum type at the API boundary: BookSnapshot, BookDiff,
// Trade, and Disconnect all implement it.
type Message interface {
	Kind() MessageKind
}

// Level is one price/qty pair within a BookSnapshot.
type Level struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}

// BookSnapshot is a full view of the book at a moment.
type BookSnapshot struct {
	Bids      []Level
	Asks      []Level
	Timestamp int64
	TickSize  decimal.Decimal
	LotSize   decimal.Decimal
	Redundant bool
}

func (*BookSnapshot) Kind() MessageKind { return KindSnapshot }

// SnapshotDelay resolves to a full snapshot when invoked. Writer calls it at
// most once, only when the message it is attached to overflows the current
// context's bit widths.
type SnapshotDelay func() (*BookSnapshot, error)

// BookDiff is a single price-level update. Qty == 0 means the level was
// removed.
type BookDiff struct {
	Price         decimal.Decimal
	Qty           decimal.Decimal
	IsBid         bool
	Timestamp     int64
	SnapshotDelay SnapshotDelay
}

func (*BookDiff) Kind() MessageKind { return KindDiff }

// IsRemoval reports whether this diff represents a level removal (qty==0).
func (d *BookDiff) IsRemoval() bool { return d.Qty.IsZero() }

// TradeID is a trade identifier, either a nonnegative integer or a UTF-8
// string; exactly one form is populated depending on Numeric.
type TradeID struct {
	Numeric bool
	Num     *big.Int
	Str     string
}

// Trade is a single executed trade.
type Trade struct {
	Price         decimal.Decimal
	Qty           decimal.Decimal
	MakerIsBid    bool
	ID            TradeID
	Timestamp     int64
	SnapshotDelay SnapshotDelay
}

func (*Trade) Kind() MessageKind { return KindTrade }

// Disconnect marks a break in the upstream feed; it carries no payload
// beyond its timestamp.
type Disconnect struct {
	Timestamp int64
}

func (*Disconnect) Kind() MessageKind { return KindDisconnect }
