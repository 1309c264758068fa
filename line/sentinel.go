package line

import "github.com/google/btree"

// Header and Marker are never stored in a buffer. They only appear
// in snapshots, marking the top of the window and the read boundary.
var (
	Header Line = &sentinel{id: HeaderID}
	Marker Line = &sentinel{id: MarkerID}
)

// IsSentinel returns true if id belongs to Header or Marker
func IsSentinel(id uint64) bool {
	return id == HeaderID || id == MarkerID
}

func (s *sentinel) Less(b btree.Item) bool { return s.id < b.(Identifier).ID() }
func (s *sentinel) ID() uint64 { return s.id }
func (s *sentinel) Visible() bool { return false }
func (s *sentinel) Highlighted() bool { return false }
func (s *sentinel) Type() Type { return TypeOther }
func (s *sentinel) Prefix() string { return "" }
func (s *sentinel) Buffer() string { return "" }
func (s *sentinel) DisplayString() string { return "" }
func (s *sentinel) Width() int { return 0 }
func (s *sentinel) ProcessMessage() {}
func (s *sentinel) ProcessMessageIfNeeded() {}
func (s *sentinel) EraseProcessedMessage() {}
func (s *sentinel) IsProcessed() bool { return true }

// Key returns a btree item that compares equal to any line with
// the given ID. Use it to look lines up in a btree.
func Key(id uint64) btree.Item {
	return key(id)
}

func (k key) ID() uint64 {
	return uint64(k)
}

// Less implements the btree.Item interface
func (k key) Less(b btree.Item) bool {
	return uint64(k) < b.(Identifier).ID()
}
