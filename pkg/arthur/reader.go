package arthur

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/handikong/arthur/pkg/arthur/arthurmetrics"
)

// Reader is a single-threaded, stateful wrapper over a byte source that
// decodes ARTHUR frames back into logical messages. It owns one Context,
// rebuilt purely from the frames it reads.
type Reader struct {
	br      *bufio.Reader
	closer  io.Closer
	ctx     *Context
	closed  bool
	metrics arthurmetrics.Recorder
	stats   Stats
}

// ReaderOption configures a Reader at construction.
type ReaderOption func(*Reader)

// WithReaderMetrics attaches a Recorder; frames read are reported to it in
// addition to the built-in Stats().
func WithReaderMetrics(r arthurmetrics.Recorder) ReaderOption {
	return func(rd *Reader) { rd.metrics = r }
}

// NewReader wraps source. If source also implements io.Closer, Close
// releases it.
func NewReader(source io.Reader, opts ...ReaderOption) *Reader {
	rd := &Reader{
		br:    bufio.NewReader(source),
		ctx:   NewContext(),
		stats: newStats(),
	}
	if c, ok := source.(io.Closer); ok {
		rd.closer = c
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Stats returns a snapshot of frame/byte counters.
func (rd *Reader) Stats() Stats { return rd.stats.clone() }

// Read decodes the next logical message, skipping TIMESTAMP frames (which
// only mutate the context). Returns io.EOF at a clean end of stream.
func (rd *Reader) Read() (msg Message, err error) {
	if rd.closed {
		return nil, ErrStreamClosed
	}
	defer func() {
		if err != nil && rd.metrics != nil && errors.Is(err, ErrCorruptStream) {
			rd.metrics.CorruptStreamAbort()
		}
	}()
	for {
		frame, err := ReadFrame(rd.br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		n := len(frame.Payload) + frameHeaderLen(len(frame.Payload))
		rd.stats.recordRead(frame.Type, n)
		if rd.metrics != nil {
			rd.metrics.FrameRead(frame.Type.String(), n)
		}

		switch {
		case frame.Type == FrameTimestamp:
			ts, err := DecodeTimestampPayload(frame.Payload)
			if err != nil {
				return nil, err
			}
			rd.ctx.setTimestamp(ts)
			continue

		case frame.Type == FrameSnapshot:
			if !rd.ctx.HasTimestamp() {
				if frame.TsOff != 0 {
					return nil, fmt.Errorf("%w: leading snapshot with nonzero ts_off and no timestamp context", ErrCorruptStream)
				}
				rd.ctx.setTimestamp(0)
			}
			snap, newCtx, err := DecodeSnapshot(frame.Payload)
			if err != nil {
				return nil, err
			}
			snap.Timestamp = rd.ctx.Timestamp() + int64(frame.TsOff)
			rd.ctx.setSnapshotWidths(newCtx.Pbits(), newCtx.Qbits(), newCtx.TickSize(), newCtx.LotSize())
			return snap, nil

		case isDiffFrameType(frame.Type):
			if !rd.ctx.Ready() {
				return nil, fmt.Errorf("%w: data frame before any snapshot", ErrCorruptStream)
			}
			isBid, isRemoval := sideFromDiffFrameType(frame.Type)
			price := decimal.Zero
			qty := decimal.Zero
			if isRemoval {
				ticks, err := DecodeRemoval(rd.ctx, frame.Payload)
				if err != nil {
					return nil, err
				}
				price = decimal.NewFromBigInt(ticks, 0).Mul(rd.ctx.TickSize())
			} else {
				ticks, lots, err := DecodeDiff(rd.ctx, frame.Payload)
				if err != nil {
					return nil, err
				}
				price = decimal.NewFromBigInt(ticks, 0).Mul(rd.ctx.TickSize())
				qty = decimal.NewFromBigInt(lots, 0).Mul(rd.ctx.LotSize())
			}
			diff := &BookDiff{
				Price:     price,
				Qty:       qty,
				IsBid:     isBid,
				Timestamp: rd.ctx.Timestamp() + int64(frame.TsOff),
			}
			return diff, nil

		case frame.Type == FrameTrade:
			if !rd.ctx.Ready() {
				return nil, fmt.Errorf("%w: data frame before any snapshot", ErrCorruptStream)
			}
			ticks, lots, makerIsBid, id, err := DecodeTrade(rd.ctx, frame.Payload)
			if err != nil {
				return nil, err
			}
			tr := &Trade{
				Price:      decimal.NewFromBigInt(ticks, 0).Mul(rd.ctx.TickSize()),
				Qty:        decimal.NewFromBigInt(lots, 0).Mul(rd.ctx.LotSize()),
				MakerIsBid: makerIsBid,
				ID:         id,
				Timestamp:  rd.ctx.Timestamp() + int64(frame.TsOff),
			}
			return tr, nil

		case frame.Type == FrameDisconnect:
			if !rd.ctx.HasTimestamp() {
				return nil, fmt.Errorf("%w: disconnect frame before any timestamp", ErrCorruptStream)
			}
			if err := DecodeDisconnect(frame.Payload); err != nil {
				return nil, err
			}
			return &Disconnect{Timestamp: rd.ctx.Timestamp() + int64(frame.TsOff)}, nil

		default:
			return nil, fmt.Errorf("%w: unknown frame type %d", ErrCorruptStream, frame.Type)
		}
	}
}

// Close releases the underlying source, if it is an io.Closer. Idempotent.
func (rd *Reader) Close() error {
	if rd.closed {
		return nil
	}
	rd.closed = true
	if rd.closer != nil {
		return rd.closer.Close()
	}
	return nil
}
