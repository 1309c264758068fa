package buffer

import (
	"slices"

	"github.com/peco/scrollback/line"
	"github.com/pkg/errors"
)

var _ Buffer = (*Snapshot)(nil)

// Copy returns a snapshot of the visible projection if `filtered` is
// true, or of the full projection otherwise. The snapshot never
// changes, whatever happens to the window afterwards.
func (w *Window) Copy(filtered bool) *Snapshot {
	src, skip := &w.views.full, w.marker.skipFull
	if filtered {
		src, skip = &w.views.visible, w.marker.skipVisible
	}

	size := src.Len()
	lines := make([]line.Line, 0, size+2)
	lines = append(lines, line.Header)
	lines = src.appendTo(lines)

	markerIndex := -1
	if skip >= 0 && size > 0 {
		if n := size - skip; n > 0 {
			// +1 for the header
			markerIndex = n + 1
			lines = slices.Insert(lines, markerIndex, line.Marker)
		}
	}

	return &Snapshot{
		lines:       lines,
		markerIndex: markerIndex,
		filtered:    filtered,
		status:      w.status,
		maxLines:    w.maxSize,
		lastSeen:    w.marker.lastSeen,
	}
}

// Size returns the number of entries, sentinels included
func (s *Snapshot) Size() int {
	return len(s.lines)
}

// LineAt returns the entry at index `i`. Index 0 is always the header
func (s *Snapshot) LineAt(i int) (line.Line, error) {
	if i < 0 || i >= len(s.lines) {
		return nil, errors.Errorf("specified index %d is out of range (size %d)", i, len(s.lines))
	}
	return s.lines[i], nil
}

// LinesInRange returns a copy of the entries in [start, end)
func (s *Snapshot) LinesInRange(start, end int) []line.Line {
	start = max(start, 0)
	end = min(end, len(s.lines))
	if start >= end {
		return nil
	}
	return slices.Clone(s.lines[start:end])
}

// Lines returns a copy of every entry, sentinels included
func (s *Snapshot) Lines() []line.Line {
	return slices.Clone(s.lines)
}

// MarkerIndex returns the index of the Marker sentinel, or -1 if
// the snapshot has no read marker
func (s *Snapshot) MarkerIndex() int {
	return s.markerIndex
}

// Filtered returns true if this is a copy of the visible projection
func (s *Snapshot) Filtered() bool {
	return s.filtered
}

func (s *Snapshot) Status() FetchStatus {
	return s.status
}

// Ready reports if the window was ready when the copy was taken
func (s *Snapshot) Ready() bool {
	return s.status == StatusCanFetchMore || s.status == StatusEverythingFetched
}

// MaxLines returns the capacity of the window at the time of the copy
func (s *Snapshot) MaxLines() int {
	return s.maxLines
}

// LastSeen returns the last seen line ID at the time of the copy
func (s *Snapshot) LastSeen() uint64 {
	return s.lastSeen
}

// MaxColumn returns the widest display width among the lines, which
// controls how far we can scroll to the right. Lines are rendered
// on first use.
func (s *Snapshot) MaxColumn() int {
	var maxcols int
	for _, l := range s.lines {
		if line.IsSentinel(l.ID()) {
			continue
		}
		if cols := l.Width(); cols > maxcols {
			maxcols = cols
		}
	}
	return maxcols
}
