package buffer

import (
	"github.com/google/btree"
	"github.com/peco/scrollback/line"
)

// DefaultLineIncrement is the page size used when a Window is
// created with a non-positive increment
const DefaultLineIncrement = 200

// degree of the btree holding resident line IDs
const indexDegree = 16

// Buffer interface is used for read-only containers of lines
// handed out to the presentation layer.
type Buffer interface {
	LinesInRange(int, int) []line.Line
	LineAt(int) (line.Line, error)
	Size() int
}

// Logger is used to report out-of-protocol calls that are
// ignored, such as live lines arriving mid-fetch.
type Logger interface {
	Printf(string, ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

//go:generate stringer -type FetchStatus -trimprefix Status -output fetchstatus_string.go

// FetchStatus describes where a Window is in its fetch cycle
type FetchStatus int

const (
	StatusUninitialized     FetchStatus = iota // nothing requested yet, or just cleared
	StatusFetching                             // a page of history is in flight
	StatusCanFetchMore                         // last page was full, more history may exist
	StatusEverythingFetched                    // last page came back short
)

// Option configures a Window
type Option func(*Window)

// Window is a bounded, double ended sequence of lines kept in two
// synchronized projections: every resident line, and only the
// visible ones. It also tracks where the read marker sits in each
// projection.
//
// A Window is not safe for concurrent use. Exactly one goroutine
// may call its methods at a time; readers should receive a Snapshot
// from that goroutine.
type Window struct {
	name      string
	increment int
	maxSize   int
	status    FetchStatus
	views     views
	marker    readMarker

	resetMarkerOnClear bool
	logger             Logger
}

// ring is a growable double ended queue of lines, oldest first
type ring struct {
	buf  []line.Line
	head int
	size int
}

// views holds the full and visible projections, plus an index of
// resident line IDs. All mutations go through its methods so the
// three never disagree.
type views struct {
	full    ring
	visible ring
	index   *btree.BTree
}

// readMarker keeps the distance, in lines, from the newest end of
// each projection to the last seen line. -1 means unknown.
type readMarker struct {
	skipFull          int
	skipVisible       int
	skipFullOffset    int
	skipVisibleOffset int
	lastSeen          uint64
}

// Snapshot is an independent copy of one projection of a Window,
// with the Header sentinel prepended and the Marker sentinel
// inserted at the read boundary.
type Snapshot struct {
	lines       []line.Line
	markerIndex int
	filtered    bool
	status      FetchStatus
	maxLines    int
	lastSeen    uint64
}
