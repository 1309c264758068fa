package buffer

import (
	"iter"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/line"
	"github.com/pkg/errors"
)

// WithLogger sets the logger used to report ignored calls
func WithLogger(l Logger) Option {
	return func(w *Window) {
		if l == nil {
			l = nullLogger{}
		}
		w.logger = l
	}
}

// WithMarkerReset controls whether Clear also forgets the read
// marker. By default the marker survives Clear, so a window that
// is refilled after a rejoin can find its last seen line again.
func WithMarkerReset(b bool) Option {
	return func(w *Window) {
		w.resetMarkerOnClear = b
	}
}

// NewWindow creates an empty Window. `increment` is both the
// initial capacity and the amount the capacity grows by every time
// more lines are requested.
func NewWindow(name string, increment int, options ...Option) *Window {
	if increment <= 0 {
		increment = DefaultLineIncrement
	}
	w := &Window{
		name:      name,
		increment: increment,
		maxSize:   increment,
		status:    StatusUninitialized,
		views:     newViews(),
		marker:    newReadMarker(),
		logger:    nullLogger{},
	}
	for _, o := range options {
		o(w)
	}
	return w
}

func (w *Window) Name() string {
	return w.name
}

// Size returns the number of resident lines
func (w *Window) Size() int {
	return w.views.size()
}

// VisibleSize returns the number of resident lines that are visible
func (w *Window) VisibleSize() int {
	return w.views.visible.Len()
}

// MaxLines returns the current capacity
func (w *Window) MaxLines() int {
	return w.maxSize
}

func (w *Window) Status() FetchStatus {
	return w.status
}

// Ready returns true if at least one fetch cycle has completed, that
// is the window holds all the line and read marker information it is
// going to get. Note that it may still be empty.
func (w *Window) Ready() bool {
	return w.status == StatusCanFetchMore || w.status == StatusEverythingFetched
}

// AddFirst prepends a line older than every resident line. It may
// only be called while a page is being fetched; otherwise it returns
// a *StateError and leaves the window untouched.
//
// If the window is full the oldest line is evicted first, even
// though it is newer than the line being added. This keeps memory
// bounded while paging deep into history.
func (w *Window) AddFirst(l line.Line) error {
	if w.status != StatusFetching {
		return errors.WithStack(&StateError{Op: "AddFirst", Status: w.status, Want: StatusFetching})
	}

	w.makeRoom()
	w.views.pushFront(l)
	w.marker.fit(w.views.size(), w.views.visible.Len())
	return nil
}

// AddLast appends a newly arrived line. While a page is being
// fetched the line is dropped, and ErrFetchInProgress is returned.
func (w *Window) AddLast(l line.Line) error {
	if w.status == StatusFetching {
		w.logger.Printf("%s: AddLast() while lines are being fetched", w.name)
		return ErrFetchInProgress
	}

	w.makeRoom()
	w.views.pushBack(l)
	w.marker.grow(l.Visible())
	w.marker.fit(w.views.size(), w.views.visible.Len())

	// if we hit max size before anything was requested, behave as
	// if a page had just been listed
	if !w.Ready() && w.views.size() == w.maxSize {
		if pdebug.Enabled {
			pdebug.Printf("Window.AddLast (%s): filled up to %d lines before any fetch", w.name, w.maxSize)
		}
		w.OnLinesListed()
	}
	return nil
}

func (w *Window) makeRoom() {
	if l := w.views.makeRoom(w.maxSize); l != nil && pdebug.Enabled {
		pdebug.Printf("Window (%s): evicted line %d", w.name, l.ID())
	}
}

// Clear empties the window and brings it back to its initial state
// so it can be reused, e.g. when rejoining a channel. Unless the
// window was created WithMarkerReset(true), the last seen line ID
// and any pending checkpoint survive.
func (w *Window) Clear() {
	if pdebug.Enabled {
		g := pdebug.Marker("Window.Clear (%s, %d lines)", w.name, w.views.size())
		defer g.End()
	}
	w.views.reset()
	w.maxSize = w.increment
	w.status = StatusUninitialized
	if w.resetMarkerOnClear {
		w.marker = newReadMarker()
		return
	}
	// the last seen line is kept so it can be found again once the
	// window is refilled, but skips past the (now empty) window
	// are meaningless
	w.marker.fit(0, 0)
}

// Contains returns true if a line with the same ID is resident
func (w *Window) Contains(l line.Line) bool {
	return w.views.contains(l.ID())
}

// ContainsID returns true if a line with the given ID is resident
func (w *Window) ContainsID(id uint64) bool {
	return w.views.contains(id)
}

// ProcessAllMessages renders every resident line. If force is
// false, lines that already carry a rendering are left alone
func (w *Window) ProcessAllMessages(force bool) {
	for i := 0; i < w.views.full.Len(); i++ {
		if l := w.views.full.At(i); force {
			l.ProcessMessage()
		} else {
			l.ProcessMessageIfNeeded()
		}
	}
}

// EraseProcessedMessages drops the rendering of every resident line
func (w *Window) EraseProcessedMessages() {
	for i := 0; i < w.views.full.Len(); i++ {
		w.views.full.At(i).EraseProcessedMessage()
	}
}

// DescendingVisible iterates over the visible lines, newest first.
// The window must not be modified during iteration.
func (w *Window) DescendingVisible() iter.Seq[line.Line] {
	return func(yield func(line.Line) bool) {
		for i := w.views.visible.Len() - 1; i >= 0; i-- {
			if !yield(w.views.visible.At(i)) {
				return
			}
		}
	}
}

// OnMoreLinesRequested must be called before asking the relay for
// another page. Every request except the very first one grows the
// capacity by one increment.
func (w *Window) OnMoreLinesRequested() {
	if pdebug.Enabled {
		g := pdebug.Marker("Window.OnMoreLinesRequested (%s, status=%s, max=%d)", w.name, w.status, w.maxSize)
		defer g.End()
	}
	if w.status != StatusUninitialized {
		w.maxSize += w.increment
	}
	w.status = StatusFetching
}

// OnLinesListed must be called once a page has been applied with
// AddFirst. A full page means more history may be available.
func (w *Window) OnLinesListed() {
	if pdebug.Enabled {
		g := pdebug.Marker("Window.OnLinesListed (%s, %d/%d lines)", w.name, w.views.size(), w.maxSize)
		defer g.End()
	}
	if w.views.size() == w.maxSize {
		w.status = StatusCanFetchMore
	} else {
		w.status = StatusEverythingFetched
	}
	w.setSkipsUsingID()
}
