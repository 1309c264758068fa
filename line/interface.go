package line

import (
	"math"
	"sync"

	"github.com/google/btree"
)

// Reserved IDs. Generators never hand these out, so they can never
// collide with a real line.
const (
	// NoID means "no line". It is the zero value of an ID.
	NoID uint64 = 0
	// HeaderID is the ID carried by the Header sentinel
	HeaderID uint64 = math.MaxUint64
	// MarkerID is the ID carried by the Marker sentinel
	MarkerID uint64 = math.MaxUint64 - 1
)

// IDGenerator defines an interface for things that generate
// unique IDs for lines.
type IDGenerator interface {
	Next() uint64
}

// Identifier is anything that carries a line ID. The btree index
// only needs this much to order its items.
type Identifier interface {
	ID() uint64
}

// Type tags what kind of line this is (a chat message, or
// everything else such as joins, parts and topic changes)
type Type int

const (
	TypeOther   Type = iota // TypeOther is a non-message line
	TypeMessage             // TypeMessage is a line spoken by someone
)

// Line represents a single line of conversation history.
type Line interface {
	btree.Item
	Identifier

	// Visible reports if this line passes the visibility filter.
	// It never changes while the line is held by a buffer.
	Visible() bool

	// Highlighted reports if this line mentions the user
	Highlighted() bool

	Type() Type

	// Prefix returns the prefix (usually the nick) of the line
	Prefix() string

	// Buffer returns the raw message. May contain ANSI sequences
	Buffer() string

	// DisplayString returns the processed message, processing it
	// first if there is no cached copy
	DisplayString() string

	// Width returns the number of terminal columns DisplayString occupies
	Width() int

	// ProcessMessage (re)computes the cached rendering
	ProcessMessage()

	// ProcessMessageIfNeeded computes the cached rendering only if
	// there is none
	ProcessMessageIfNeeded()

	// EraseProcessedMessage drops the cached rendering
	EraseProcessedMessage()

	IsProcessed() bool
}

// Raw is a line as received from the relay.
type Raw struct {
	id          uint64
	typ         Type
	prefix      string
	buf         string
	visible     bool
	highlighted bool

	mutex     sync.Mutex
	processed bool
	display   string
	width     int
}

// sentinel is a synthetic line that only ever shows up in snapshots
type sentinel struct {
	id uint64
}

// key is used to look up lines by ID in a btree
type key uint64
