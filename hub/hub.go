// Package hub implements the channels through which clients talk to
// the goroutine that owns a scrollback window
package hub

import (
	"context"
	"sync"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/line"
	"github.com/pkg/errors"
)

// NewPayload creates a new Payload with the given data and batch flag.
func NewPayload[T any](data T, batch bool) *Payload[T] {
	return &Payload[T]{
		data:  data,
		batch: batch,
	}
}

// Batch returns true if this payload is part of a batch operation.
func (p *Payload[T]) Batch() bool {
	return p.batch
}

// Data returns the underlying data.
func (p *Payload[T]) Data() T {
	return p.data
}

// Done marks the request as done. If Hub is operating in
// asynchronous mode (default), it's a no op. Otherwise it
// releases the sender waiting for the request to be processed.
func (p *Payload[T]) Done() {
	if p.done == nil {
		return
	}
	p.done <- struct{}{}
}

// New creates a new Hub struct
func New(bufsiz int) *Hub {
	return &Hub{
		fetchCh:     make(chan *Payload[FetchRequest], bufsiz),
		pageCh:      make(chan *Payload[[]line.Line], bufsiz),
		lineCh:      make(chan *Payload[line.Line], bufsiz),
		controlCh:   make(chan *Payload[ControlRequest], bufsiz),
		snapshotCh:  make(chan *Payload[*SnapshotRequest], bufsiz),
		statusMsgCh: make(chan *Payload[StatusMsg], bufsiz),
	}
}

type operationNameKey struct{}
type batchPayloadKey struct{}

// Batch allows you to synchronously send messages during the
// scope of f() being executed.
func (h *Hub) Batch(ctx context.Context, f func(ctx context.Context)) {
	if pdebug.Enabled {
		g := pdebug.Marker("Batch")
		defer g.End()
	}
	f(context.WithValue(ctx, batchPayloadKey{}, true))
}

var doneChPool = sync.Pool{
	New: func() interface{} {
		// buffered so that Done never blocks on a sender that gave up
		return make(chan struct{}, 1)
	},
}

func (p *Payload[T]) waitDone(ctx context.Context) error {
	ch := p.done
	select {
	case <-ch:
		// only channels that were drained go back to the pool
		doneChPool.Put(ch)
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "gave up waiting for %v", ctx.Value(operationNameKey{}))
	}
}

func isBatchCtx(ctx context.Context) bool {
	var isBatchMode bool
	v := ctx.Value(batchPayloadKey{})
	if vv, ok := v.(bool); ok {
		isBatchMode = vv
	}
	return isBatchMode
}

// send is the low-level generic utility for sending typed payloads.
// In batch mode it waits for the receiver to call Done.
func send[T any](ctx context.Context, ch chan *Payload[T], r *Payload[T]) error {
	isBatchMode := isBatchCtx(ctx)
	if pdebug.Enabled {
		g := pdebug.Marker("hub.send (name=%s, isBatchMode=%t)", ctx.Value(operationNameKey{}), isBatchMode)
		defer g.End()
	}

	if isBatchMode {
		r.done = doneChPool.Get().(chan struct{})
	}

	select {
	case ch <- r:
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "failed to send %v", ctx.Value(operationNameKey{}))
	}

	if isBatchMode {
		if pdebug.Enabled {
			pdebug.Printf("request is part of batch operation. waiting")
		}
		return r.waitDone(ctx)
	}
	return nil
}

// FetchCh returns the channel for requests to fetch more history
func (h *Hub) FetchCh() chan *Payload[FetchRequest] {
	return h.fetchCh
}

// SendFetch requests `pages` more pages of history. In batch mode
// it returns once the pages have been applied to the window
func (h *Hub) SendFetch(ctx context.Context, pages int) error {
	if pages < 1 {
		pages = 1
	}
	return send(context.WithValue(ctx, operationNameKey{}, "send fetch"), h.FetchCh(), NewPayload(FetchRequest{Pages: pages}, isBatchCtx(ctx)))
}

// PageCh returns the channel that carries pages of history, oldest
// line first
func (h *Hub) PageCh() chan *Payload[[]line.Line] {
	return h.pageCh
}

// SendPage delivers a page of history in response to a fetch
func (h *Hub) SendPage(ctx context.Context, lines []line.Line) error {
	return send(context.WithValue(ctx, operationNameKey{}, "send page"), h.PageCh(), NewPayload(lines, isBatchCtx(ctx)))
}

// LineCh returns the channel that carries newly arrived lines
func (h *Hub) LineCh() chan *Payload[line.Line] {
	return h.lineCh
}

// SendLine delivers a newly arrived line
func (h *Hub) SendLine(ctx context.Context, l line.Line) error {
	return send(context.WithValue(ctx, operationNameKey{}, "send line"), h.LineCh(), NewPayload(l, isBatchCtx(ctx)))
}

// ControlCh returns the channel for control requests
func (h *Hub) ControlCh() chan *Payload[ControlRequest] {
	return h.controlCh
}

// SendControl sends a request to manipulate the window or its
// read marker
func (h *Hub) SendControl(ctx context.Context, r ControlRequest) error {
	return send(context.WithValue(ctx, operationNameKey{}, "send control"), h.ControlCh(), NewPayload(r, isBatchCtx(ctx)))
}

// SnapshotCh returns the channel for snapshot requests
func (h *Hub) SnapshotCh() chan *Payload[*SnapshotRequest] {
	return h.snapshotCh
}

// NewSnapshotRequest creates a request for a copy of the visible
// view if filtered is true, or the full view otherwise
func NewSnapshotRequest(filtered bool) *SnapshotRequest {
	return &SnapshotRequest{
		filtered: filtered,
		reply:    make(chan *buffer.Snapshot, 1),
	}
}

// Filtered returns true if the visible view was requested
func (r *SnapshotRequest) Filtered() bool {
	return r.filtered
}

// Reply hands the snapshot back to the requester. It must be
// called once per request
func (r *SnapshotRequest) Reply(s *buffer.Snapshot) {
	r.reply <- s
}

// RequestSnapshot asks for a snapshot and waits for the reply
func (h *Hub) RequestSnapshot(ctx context.Context, filtered bool) (*buffer.Snapshot, error) {
	r := NewSnapshotRequest(filtered)
	if err := send(context.WithValue(ctx, operationNameKey{}, "request snapshot"), h.SnapshotCh(), NewPayload(r, isBatchCtx(ctx))); err != nil {
		return nil, err
	}

	select {
	case s := <-r.reply:
		return s, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "failed to receive snapshot")
	}
}

// StatusMsgCh returns the channel to update the status message
func (h *Hub) StatusMsgCh() chan *Payload[StatusMsg] {
	return h.statusMsgCh
}

// SendStatusMsg sends a string to be displayed in the status message
func (h *Hub) SendStatusMsg(ctx context.Context, q string) error {
	return send(context.WithValue(ctx, operationNameKey{}, "send status message"), h.StatusMsgCh(), NewPayload[StatusMsg](statusMsgReq(q), isBatchCtx(ctx)))
}

// StatusMsg is an interface for status message requests.
type StatusMsg interface {
	Message() string
}

type statusMsgReq string

func (r statusMsgReq) Message() string {
	return string(r)
}
