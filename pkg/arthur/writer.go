package arthur

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/handikong/arthur/pkg/arthur/arthurmetrics"
)

// Writer is a single-threaded, stateful wrapper over a byte sink that
// serializes logical messages into ARTHUR frames. It owns one Context,
// advancing it as SNAPSHOT/TIMESTAMP frames are emitted.
type Writer struct {
	bw      *bufio.Writer
	sink    io.Writer
	closer  io.Closer // nil if the sink isn't also an io.Closer
	ctx     *Context
	closed  bool
	metrics arthurmetrics.Recorder
	stats   Stats
}

// WriterOption configures a Writer at construction.
type WriterOption func(*Writer)

// WithWriterMetrics attaches a Recorder; frames written are reported to it
// in addition to the built-in Stats().
func WithWriterMetrics(r arthurmetrics.Recorder) WriterOption {
	return func(w *Writer) { w.metrics = r }
}

// WithWriterBufferSize overrides the internal bufio.Writer's buffer size.
func WithWriterBufferSize(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.bw = bufio.NewWriterSize(w.sink, n)
		}
	}
}

// NewWriter wraps sink. If sink also implements io.Closer, Close releases it
// after flushing.
func NewWriter(sink io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		bw:    bufio.NewWriter(sink),
		sink:  sink,
		ctx:   NewContext(),
		stats: newStats(),
	}
	if c, ok := sink.(io.Closer); ok {
		w.closer = c
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Stats returns a snapshot of frame/byte counters.
func (w *Writer) Stats() Stats { return w.stats.clone() }

// Write encodes and emits m, recovering from overflow via an in-line
// snapshot when m carries a SnapshotDelay.
func (w *Writer) Write(m Message) error {
	if w.closed {
		return ErrStreamClosed
	}

	switch v := m.(type) {
	case *BookSnapshot:
		return w.writeSnapshot(v, decimal.Zero, decimal.Zero)
	case *BookDiff:
		return w.writeDiff(v)
	case *Trade:
		return w.writeTrade(v)
	case *Disconnect:
		return w.writeTimestampIfNeeded(v.Timestamp, func(tsOff uint16) error {
			return w.emit(FrameDisconnect, EncodeDisconnect(), tsOff)
		})
	default:
		return fmt.Errorf("arthur: write: unsupported message type %T", m)
	}
}

// writeTimestampIfNeeded emits a TIMESTAMP frame if required by ts, then
// invokes body with the resulting ts_off.
func (w *Writer) writeTimestampIfNeeded(ts int64, body func(tsOff uint16) error) error {
	if needsTimestampFrame(w.ctx, ts) {
		if err := w.emit(FrameTimestamp, EncodeTimestampPayload(ts), 0); err != nil {
			return err
		}
		w.ctx.setTimestamp(ts)
	}
	tsOff := uint16(ts - w.ctx.Timestamp())
	return body(tsOff)
}

func (w *Writer) writeSnapshot(s *BookSnapshot, minPrice, minQty decimal.Decimal) error {
	return w.writeTimestampIfNeeded(s.Timestamp, func(tsOff uint16) error {
		payload, newCtx, err := EncodeSnapshot(s, minPrice, minQty)
		if err != nil {
			return err
		}
		if err := w.emit(FrameSnapshot, payload, tsOff); err != nil {
			return err
		}
		w.ctx.setSnapshotWidths(newCtx.Pbits(), newCtx.Qbits(), newCtx.TickSize(), newCtx.LotSize())
		return nil
	})
}

func (w *Writer) writeDiff(d *BookDiff) error {
	if !w.ctx.Ready() {
		return ErrNotReady
	}
	return w.writeTimestampIfNeeded(d.Timestamp, func(tsOff uint16) error {
		var payload []byte
		var err error
		removal := d.IsRemoval()
		if removal {
			payload, err = EncodeRemoval(w.ctx, d.Price)
		} else {
			payload, err = EncodeDiff(w.ctx, d.Price, d.Qty)
		}
		if err == nil {
			return w.emit(diffFrameType(d.IsBid, removal), payload, tsOff)
		}
		if !isOverflow(err) {
			return err
		}
		// Overflow: resolve via in-line snapshot; the diff itself is dropped.
		snap, rerr := w.resolveSnapshotDelay(d.SnapshotDelay)
		if rerr != nil {
			return rerr
		}
		if w.metrics != nil {
			w.metrics.OverflowRecovered()
		}
		w.stats.OverflowEvents++
		payload, newCtx, err := EncodeSnapshot(snap, d.Price, d.Qty)
		if err != nil {
			return err
		}
		if err := w.emit(FrameSnapshot, payload, tsOff); err != nil {
			return err
		}
		w.ctx.setSnapshotWidths(newCtx.Pbits(), newCtx.Qbits(), newCtx.TickSize(), newCtx.LotSize())
		return nil
	})
}

func (w *Writer) writeTrade(t *Trade) error {
	if !w.ctx.Ready() {
		return ErrNotReady
	}
	return w.writeTimestampIfNeeded(t.Timestamp, func(tsOff uint16) error {
		payload, err := EncodeTrade(w.ctx, t.Price, t.Qty, t.MakerIsBid, t.ID)
		if err == nil {
			return w.emit(FrameTrade, payload, tsOff)
		}
		if !isOverflow(err) {
			return err
		}
		snap, rerr := w.resolveSnapshotDelay(t.SnapshotDelay)
		if rerr != nil {
			return rerr
		}
		if w.metrics != nil {
			w.metrics.OverflowRecovered()
		}
		w.stats.OverflowEvents++
		snapPayload, newCtx, err := EncodeSnapshot(snap, t.Price, t.Qty)
		if err != nil {
			return err
		}
		if err := w.emit(FrameSnapshot, snapPayload, tsOff); err != nil {
			return err
		}
		w.ctx.setSnapshotWidths(newCtx.Pbits(), newCtx.Qbits(), newCtx.TickSize(), newCtx.LotSize())

		tradePayload, err := EncodeTrade(w.ctx, t.Price, t.Qty, t.MakerIsBid, t.ID)
		if err != nil {
			return err
		}
		return w.emit(FrameTrade, tradePayload, tsOff)
	})
}

func (w *Writer) resolveSnapshotDelay(delay SnapshotDelay) (*BookSnapshot, error) {
	if delay == nil {
		return nil, ErrMissingSnapshot
	}
	snap, err := delay()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingSnapshot, err)
	}
	if snap == nil {
		return nil, ErrMissingSnapshot
	}
	return snap, nil
}

func (w *Writer) emit(typ FrameType, payload []byte, tsOff uint16) error {
	if err := WriteFrame(w.bw, typ, payload, tsOff); err != nil {
		return err
	}
	n := len(payload) + frameHeaderLen(len(payload))
	w.stats.recordWrite(typ, n)
	if w.metrics != nil {
		w.metrics.FrameWritten(typ.String(), n)
	}
	return nil
}

func frameHeaderLen(payloadLen int) int {
	if payloadLen <= maxCompactLen {
		return 1 + 2
	}
	return 5 + 2
}

// Close flushes buffered bytes and releases the sink, if it is an io.Closer.
// Idempotent: a second call is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
