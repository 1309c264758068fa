package line

import (
	"github.com/google/btree"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/peco/scrollback/internal/util"
)

// NewRaw creates a new Raw. The `visible` flag tells if the line
// passes the visibility filter (e.g. it is not a join/part line that
// the user asked to hide), and must not change afterwards
func NewRaw(id uint64, typ Type, prefix, msg string, visible, highlighted bool) *Raw {
	return &Raw{
		id:          id,
		typ:         typ,
		prefix:      prefix,
		buf:         msg,
		visible:     visible,
		highlighted: highlighted,
	}
}

// Less implements the btree.Item interface
func (rl *Raw) Less(b btree.Item) bool {
	return rl.id < b.(Identifier).ID()
}

// ID returns the unique ID of this line
func (rl *Raw) ID() uint64 {
	return rl.id
}

func (rl *Raw) Visible() bool {
	return rl.visible
}

func (rl *Raw) Highlighted() bool {
	return rl.highlighted
}

func (rl *Raw) Type() Type {
	return rl.typ
}

func (rl *Raw) Prefix() string {
	return rl.prefix
}

// Buffer returns the raw message. May contain ANSI sequences
func (rl *Raw) Buffer() string {
	return rl.buf
}

// DisplayString returns the string to be displayed
func (rl *Raw) DisplayString() string {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if !rl.processed {
		rl.process()
	}
	return rl.display
}

// Width returns the display width of DisplayString
func (rl *Raw) Width() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if !rl.processed {
		rl.process()
	}
	return rl.width
}

func (rl *Raw) ProcessMessage() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.process()
}

func (rl *Raw) ProcessMessageIfNeeded() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if !rl.processed {
		rl.process()
	}
}

func (rl *Raw) EraseProcessedMessage() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.processed = false
	rl.display = ""
	rl.width = 0
}

func (rl *Raw) IsProcessed() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return rl.processed
}

// must be called with the mutex held
func (rl *Raw) process() {
	msg := util.StripANSISequence(rl.buf)
	if rl.prefix != "" {
		msg = util.StripANSISequence(rl.prefix) + " " + msg
	}
	rl.display = msg
	rl.width = runewidth.StringWidth(msg)
	rl.processed = true
}
