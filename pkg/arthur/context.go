package arthur

import "github.com/shopspring/decimal"

// Context is the serialization context shared between the data flowing
// through a Writer and a Reader: the reference timestamp and the bit
// widths/scales established by the most recent SNAPSHOT frame. Writer and
// Reader each own one; the stream itself carries every transition, so the
// two stay in lock-step without any out-of-band coordination.
type Context struct {
	hasTimestamp bool
	timestamp    int64

	ready    bool
	pbits    uint8
	qbits    uint8
	tickSize decimal.Decimal
	lotSize  decimal.Decimal
}

// NewContext returns an empty context, as created at stream open.
func NewContext() *Context {
	return &Context{}
}

// Ready reports whether a SNAPSHOT has established pbits/qbits/tick/lot.
func (c *Context) Ready() bool { return c.ready }

// HasTimestamp reports whether any TIMESTAMP or SNAPSHOT frame has set the
// reference timestamp yet.
func (c *Context) HasTimestamp() bool { return c.hasTimestamp }

// Timestamp returns the current reference timestamp in milliseconds. Only
// meaningful once HasTimestamp is true.
func (c *Context) Timestamp() int64 { return c.timestamp }

// Pbits returns the current price bit width.
func (c *Context) Pbits() uint8 { return c.pbits }

// Qbits returns the current quantity bit width.
func (c *Context) Qbits() uint8 { return c.qbits }

// TickSize returns the current tick size.
func (c *Context) TickSize() decimal.Decimal { return c.tickSize }

// LotSize returns the current lot size.
func (c *Context) LotSize() decimal.Decimal { return c.lotSize }

func (c *Context) setTimestamp(ts int64) {
	c.hasTimestamp = true
	c.timestamp = ts
}

func (c *Context) setSnapshotWidths(pbits, qbits uint8, tickSize, lotSize decimal.Decimal) {
	c.ready = true
	c.pbits = pbits
	c.qbits = qbits
	c.tickSize = tickSize
	c.lotSize = lotSize
}

// clone returns an independent copy of the context.
func (c *Context) clone() *Context {
	cp := *c
	return &cp
}
