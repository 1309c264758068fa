package scrollback

import (
	"context"
	"fmt"
	"slices"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/hub"
	"github.com/peco/scrollback/internal/pool"
	"github.com/peco/scrollback/internal/util"
	"github.com/peco/scrollback/line"
	"github.com/pkg/errors"
)

// WithIncrement sets the page size of the window
func WithIncrement(n int) SessionOption {
	return func(s *Session) {
		s.increment = n
	}
}

// WithWindowOptions passes options on to the underlying buffer.Window
func WithWindowOptions(options ...buffer.Option) SessionOption {
	return func(s *Session) {
		s.windowOptions = append(s.windowOptions, options...)
	}
}

// WithStatusMessages makes the session report what it is doing
// through StatusMsgCh. Somebody must be draining that channel
func WithStatusMessages(b bool) SessionOption {
	return func(s *Session) {
		s.statusMsgs = b
	}
}

// NewSession creates a Session over the given history. Loop must be
// running before any of the other methods are called
func NewSession(name string, history *History, options ...SessionOption) *Session {
	s := &Session{
		name:      name,
		hub:       hub.New(5),
		history:   history,
		increment: buffer.DefaultLineIncrement,
		loopDone:  make(chan struct{}),
	}
	for _, o := range options {
		o(s)
	}

	wopts := append([]buffer.Option{buffer.WithLogger(traceLoggerFunc(trace))}, s.windowOptions...)
	s.window = buffer.NewWindow(name, s.increment, wopts...)
	return s
}

func (s *Session) Name() string {
	return s.name
}

// Done is closed once Loop returns
func (s *Session) Done() <-chan struct{} {
	return s.loopDone
}

// StatusMsgCh returns the channel status messages are sent to
func (s *Session) StatusMsgCh() chan *hub.Payload[hub.StatusMsg] {
	return s.hub.StatusMsgCh()
}

// Loop owns the window: it applies fetched pages, live lines and
// control requests one at a time, and answers snapshot requests,
// until ctx is cancelled
func (s *Session) Loop(ctx context.Context) error {
	if pdebug.Enabled {
		g := pdebug.Marker("Session.Loop (%s)", s.name)
		defer g.End()
	}
	defer close(s.loopDone)
	defer s.releaseFetches()

	h := s.hub
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-h.FetchCh():
			s.handleFetch(ctx, p)
		case p := <-h.PageCh():
			s.applyPage(ctx, p.Data())
			p.Done()
		case p := <-h.LineCh():
			s.handleLine(p.Data())
			p.Done()
		case p := <-h.ControlCh():
			s.handleControl(p.Data())
			p.Done()
		case p := <-h.SnapshotCh():
			p.Data().Reply(s.window.Copy(p.Data().Filtered()))
			p.Done()
		}
	}
}

// releaseFetches lets anybody waiting on a fetch go when Loop exits
func (s *Session) releaseFetches() {
	if s.inflight != nil {
		s.inflight.Done()
		s.inflight = nil
	}
	for _, p := range s.queued {
		p.Done()
	}
	s.queued = nil
}

func (s *Session) handleFetch(ctx context.Context, p *hub.Payload[hub.FetchRequest]) {
	if s.inflight != nil {
		if pdebug.Enabled {
			pdebug.Printf("Session (%s): fetch already in flight, queueing request", s.name)
		}
		s.queued = append(s.queued, p)
		return
	}
	s.startFetch(ctx, p)
}

func (s *Session) startFetch(ctx context.Context, p *hub.Payload[hub.FetchRequest]) {
	for i := 0; i < p.Data().Pages; i++ {
		s.window.OnMoreLinesRequested()
	}
	s.inflight = p

	// lines handled after this point are delivered live, so the page
	// must stop here
	end := s.history.End()
	n := s.window.MaxLines()
	s.statusf(ctx, "%s: fetching up to %d lines", s.name, n)

	go func() {
		page := s.history.Before(end, n)
		if err := s.hub.SendPage(ctx, page); err != nil {
			trace("%s: %s", s.name, err)
		}
	}()
}

// applyPage adds every line of the page that is not resident yet,
// newest first, and completes the fetch that is in flight
func (s *Session) applyPage(ctx context.Context, page []line.Line) {
	if pdebug.Enabled {
		g := pdebug.Marker("Session.applyPage (%s, %d lines)", s.name, len(page))
		defer g.End()
	}
	defer pool.ReleasePageBuf(page)

	if s.inflight == nil {
		trace("%s: received a page nobody asked for", s.name)
		return
	}

	if s.window.Status() != buffer.StatusFetching {
		// cleared while the page was in flight
		trace("%s: dropping page, window is %s", s.name, s.window.Status())
	} else {
		s.fillFrom(page)
	}

	p := s.inflight
	s.inflight = nil
	s.statusf(ctx, "%s: %d lines (%s)", s.name, s.window.Size(), s.window.Status())
	p.Done()

	if len(s.queued) > 0 {
		next := s.queued[0]
		s.queued = slices.Delete(s.queued, 0, 1)
		s.startFetch(ctx, next)
	}
}

// fillFrom prepends the lines of the page that are not resident,
// then appends the live lines dropped while the page was in flight
func (s *Session) fillFrom(page []line.Line) {
	var added int
	for i := len(page) - 1; i >= 0; i-- {
		l := page[i]
		if s.window.Contains(l) {
			continue
		}
		if err := s.window.AddFirst(l); err != nil {
			trace("%s: %s", s.name, err)
			continue
		}
		added++
	}
	s.window.OnLinesListed()

	missed := s.missed
	s.missed = nil
	for _, l := range missed {
		if s.window.Contains(l) {
			continue
		}
		if err := s.window.AddLast(l); err != nil {
			trace("%s: %s", s.name, err)
		}
	}

	if pdebug.Enabled {
		pdebug.Printf("Session (%s): added %d lines from page, caught up on %d", s.name, added, len(missed))
	}
}

func (s *Session) handleLine(l line.Line) {
	s.history.Append(l)
	if err := s.window.AddLast(l); err != nil {
		if util.IsIgnorableError(err) {
			// picked up once the page in flight has been applied
			s.missed = append(s.missed, l)
			return
		}
		trace("%s: %s", s.name, err)
	}
}

func (s *Session) handleControl(r hub.ControlRequest) {
	if pdebug.Enabled {
		g := pdebug.Marker("Session.handleControl (%s, %s)", s.name, r.Type())
		defer g.End()
	}

	switch r.Type() {
	case hub.ControlClear:
		s.window.Clear()
		s.missed = nil
	case hub.ControlRemember:
		s.window.RememberCurrentSkipsOffset()
	case hub.ControlCommit:
		s.window.MoveReadMarkerToEnd()
	case hub.ControlSetLastSeen:
		if v, ok := r.(hub.SetLastSeenRequest); ok {
			s.window.SetLastSeenLine(v.ID())
		}
	default:
		trace("%s: unknown control request %s", s.name, r.Type())
	}
}

func (s *Session) statusf(ctx context.Context, f string, args ...interface{}) {
	if !s.statusMsgs {
		return
	}
	if err := s.hub.SendStatusMsg(ctx, fmt.Sprintf(f, args...)); err != nil {
		trace("%s: %s", s.name, err)
	}
}

// roundTrip sends a request and waits until Loop has processed it
func (s *Session) roundTrip(ctx context.Context, f func(context.Context) error) error {
	var err error
	s.hub.Batch(ctx, func(ctx context.Context) {
		err = f(ctx)
	})
	return err
}

// RequestMoreLines asks for `pages` more pages of history and waits
// until they have been applied
func (s *Session) RequestMoreLines(ctx context.Context, pages int) error {
	err := s.roundTrip(ctx, func(ctx context.Context) error {
		return s.hub.SendFetch(ctx, pages)
	})
	return errors.Wrap(err, "failed to fetch more lines")
}

// Deliver hands a newly arrived line to the session. The line is
// also appended to the history
func (s *Session) Deliver(ctx context.Context, l line.Line) error {
	err := s.roundTrip(ctx, func(ctx context.Context) error {
		return s.hub.SendLine(ctx, l)
	})
	return errors.Wrap(err, "failed to deliver line")
}

// RememberReadPosition checkpoints the read position, e.g. when the
// user starts looking at the window. The newest resident line
// becomes the last seen one
func (s *Session) RememberReadPosition(ctx context.Context) error {
	return s.control(ctx, hub.ControlRemember)
}

// MarkRead moves the read marker to the position remembered by the
// last RememberReadPosition
func (s *Session) MarkRead(ctx context.Context) error {
	return s.control(ctx, hub.ControlCommit)
}

// SetLastSeenLine sets the ID of the line that was read last. It is
// applied the next time a page of history is listed
func (s *Session) SetLastSeenLine(ctx context.Context, id uint64) error {
	return s.control(ctx, hub.SetLastSeenRequest(id))
}

// Clear empties the window
func (s *Session) Clear(ctx context.Context) error {
	return s.control(ctx, hub.ControlClear)
}

func (s *Session) control(ctx context.Context, r hub.ControlRequest) error {
	err := s.roundTrip(ctx, func(ctx context.Context) error {
		return s.hub.SendControl(ctx, r)
	})
	return errors.Wrapf(err, "failed to send %s", r.Type())
}

// Snapshot returns a copy of the visible view if filtered is true,
// or of the full view otherwise
func (s *Session) Snapshot(ctx context.Context, filtered bool) (*buffer.Snapshot, error) {
	snap, err := s.hub.RequestSnapshot(ctx, filtered)
	if err != nil {
		return nil, errors.Wrap(err, "failed to take snapshot")
	}
	return snap, nil
}
