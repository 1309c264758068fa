// Package pipeline streams values from a Source to a Destination
// over a buffered channel, terminated by an end mark
package pipeline

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// number of values in flight between source and destination
const chanBufSize = 256

// EndMark returns true
func (e EndMark) EndMark() bool {
	return true
}

// Error returns the error string "end of input"
func (e EndMark) Error() string {
	return "end of input"
}

// IsEndMark is an utility function that checks if the given error
// object is an EndMark
func IsEndMark(err error) bool {
	var em EndMarker
	if errors.As(err, &em) {
		return em.EndMark()
	}
	return false
}

// Send sends the data `v` through this channel. It blocks until the value
// is sent or the context is cancelled.
func (oc ChanOutput) Send(ctx context.Context, v interface{}) error {
	if oc == nil {
		return errors.New("nil channel")
	}

	select {
	case oc <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendEndMark sends an end mark. If ctx is cancelled, the end mark is
// dropped since all pipeline stages are shutting down via context anyway.
func (oc ChanOutput) SendEndMark(ctx context.Context, s string) error {
	if err := oc.Send(ctx, errors.Wrap(EndMark{}, s)); err != nil {
		return errors.Wrap(err, "failed to send end mark")
	}
	return nil
}

// New creates a new Pipeline
func New() *Pipeline {
	return &Pipeline{
		done: make(chan struct{}),
	}
}

// SetSource sets the source. Blocks while Run is running
func (p *Pipeline) SetSource(s Source) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.src = s
}

// SetDestination sets the destination. Blocks while Run is running
func (p *Pipeline) SetDestination(d Destination) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.dst = d
}

// Run feeds everything the source produces to the destination, and
// returns once the destination is done or ctx is cancelled. A
// Pipeline can only be run once
func (p *Pipeline) Run(ctx context.Context) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Pipeline.Run").BindError(&err)
		defer g.End()
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	defer close(p.done)

	if p.src == nil {
		return errors.New("source must be non-nil")
	}
	if p.dst == nil {
		return errors.New("destination must be non-nil")
	}

	p.src.Reset()
	p.dst.Reset()

	ch := make(chan interface{}, chanBufSize)
	go p.dst.Accept(ctx, ch, nil)
	go p.src.Start(ctx, ch)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.dst.Done():
	}
	return nil
}

// Done is closed once Run returns
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}
