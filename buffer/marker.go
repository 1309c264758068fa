package buffer

import (
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/line"
)

func newReadMarker() readMarker {
	return readMarker{
		skipFull:          -1,
		skipVisible:       -1,
		skipFullOffset:    -1,
		skipVisibleOffset: -1,
		lastSeen:          line.NoID,
	}
}

// grow accounts for one line appended at the newest end
func (m *readMarker) grow(visible bool) {
	if m.skipFull >= 0 {
		m.skipFull++
	}
	if visible && m.skipVisible >= 0 {
		m.skipVisible++
	}
}

// fit forgets a skip that no longer fits in its projection, which
// happens once the marked line has been evicted
func (m *readMarker) fit(fullSize, visibleSize int) {
	if m.skipFull > fullSize {
		m.skipFull = -1
	}
	if m.skipVisible > visibleSize {
		m.skipVisible = -1
	}
}

// LastSeenLine returns the ID of the last line the user has seen,
// or line.NoID
func (w *Window) LastSeenLine() uint64 {
	return w.marker.lastSeen
}

// SetLastSeenLine sets the ID of the last line the user has seen.
// The marker is positioned from it the next time a page is listed.
func (w *Window) SetLastSeenLine(id uint64) {
	w.marker.lastSeen = id
}

// Skips returns the number of lines newer than the read marker in
// the full and the visible projection. -1 means unknown.
func (w *Window) Skips() (int, int) {
	return w.marker.skipFull, w.marker.skipVisible
}

// setSkipsUsingID positions the marker on the last seen line by
// counting the lines that are newer than it in each projection
func (w *Window) setSkipsUsingID() {
	m := &w.marker
	m.skipFull, m.skipVisible = -1, -1
	if m.lastSeen == line.NoID || !w.views.contains(m.lastSeen) {
		if pdebug.Enabled {
			pdebug.Printf("Window (%s): last seen line %d is not resident", w.name, m.lastSeen)
		}
		return
	}

	var idxFull, idxVisible int
	full := &w.views.full
	for i := full.Len() - 1; i >= 0; i-- {
		l := full.At(i)
		if l.ID() == m.lastSeen {
			m.skipFull = idxFull
			m.skipVisible = idxVisible
			return
		}
		idxFull++
		if l.Visible() {
			idxVisible++
		}
	}
}

// RememberCurrentSkipsOffset checkpoints the marker position and
// records the newest line as seen. Call MoveReadMarkerToEnd to
// commit the checkpoint.
func (w *Window) RememberCurrentSkipsOffset() {
	m := &w.marker
	m.skipFullOffset = m.skipFull
	m.skipVisibleOffset = m.skipVisible
	if l := w.views.full.Back(); l != nil {
		m.lastSeen = l.ID()
	}
}

// MoveReadMarkerToEnd marks everything up to the last checkpoint as
// read. Lines that arrived after the checkpoint stay below the
// marker. Without a usable checkpoint the marker goes to the very end.
func (w *Window) MoveReadMarkerToEnd() {
	m := &w.marker
	if m.skipFullOffset >= 0 && m.skipVisibleOffset >= 0 &&
		m.skipFull >= m.skipFullOffset && m.skipVisible >= m.skipVisibleOffset {
		m.skipFull -= m.skipFullOffset
		m.skipVisible -= m.skipVisibleOffset
	} else {
		m.skipFull, m.skipVisible = 0, 0
	}
	m.skipFullOffset, m.skipVisibleOffset = -1, -1

	if pdebug.Enabled {
		pdebug.Printf("Window.MoveReadMarkerToEnd (%s): skips now %d/%d", w.name, m.skipFull, m.skipVisible)
	}
}
