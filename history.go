package scrollback

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/internal/pool"
	"github.com/peco/scrollback/line"
	"github.com/peco/scrollback/pipeline"
	"github.com/pkg/errors"
)

// NewHistory creates an empty History. If capacity is positive,
// only the newest `capacity` lines are kept
func NewHistory(capacity int) *History {
	h := &History{
		capacity: capacity,
	}
	h.Reset()
	return h
}

// Reset prepares the History to accept input from a new pipeline
// run. Lines already in the history are kept
func (h *History) Reset() {
	h.done = make(chan struct{})
}

// Done is closed once Accept has consumed its input
func (h *History) Done() <-chan struct{} {
	return h.done
}

// Accept appends every line coming through the pipeline until the
// end mark arrives or ctx is cancelled
func (h *History) Accept(ctx context.Context, in chan interface{}, _ pipeline.ChanOutput) {
	if pdebug.Enabled {
		g := pdebug.Marker("History.Accept")
		defer g.End()
	}
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			if pdebug.Enabled {
				pdebug.Printf("History.Accept: context.Done detected")
			}
			return
		case v := <-in:
			switch v := v.(type) {
			case error:
				if pipeline.IsEndMark(v) {
					if pdebug.Enabled {
						pdebug.Printf("History.Accept: end of input (%d lines)", h.Size())
					}
					return
				}
				tracer.Printf("History.Accept: %s", v)
			case line.Line:
				h.Append(v)
			}
		}
	}
}

// Append adds a line to the end of the history
func (h *History) Append(l line.Line) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.lines = append(h.lines, l)
	if h.capacity > 0 && len(h.lines) > h.capacity {
		diff := len(h.lines) - h.capacity

		// Copy to a new slice to allow GC of discarded lines
		newLines := make([]line.Line, h.capacity)
		copy(newLines, h.lines[diff:])
		h.lines = newLines
		h.trimmed += diff
	}
}

// Size returns the number of lines in the history
func (h *History) Size() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.lines)
}

// End returns the position just past the newest line. Positions
// count every line ever appended, so a position taken earlier
// still points at the same line after old lines were trimmed
func (h *History) End() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.trimmed + len(h.lines)
}

// LineAt returns the n-th oldest line
func (h *History) LineAt(n int) (line.Line, error) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if n < 0 || n >= len(h.lines) {
		return nil, errors.Errorf("specified index %d is out of range (0-%d)", n, len(h.lines))
	}
	return h.lines[n], nil
}

// Before returns up to n lines preceding position end, oldest
// first. Lines appended after end was taken are never included.
// The page comes from internal/pool and may be released once it
// has been consumed
func (h *History) Before(end, n int) []line.Line {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	hi := min(end-h.trimmed, len(h.lines))
	lo := max(hi-n, 0)
	if hi <= lo {
		return pool.GetPageBuf(0)
	}
	return append(pool.GetPageBuf(hi-lo), h.lines[lo:hi]...)
}
