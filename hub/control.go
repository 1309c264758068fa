//go:generate stringer -type ControlType -output control_type_gen.go

package hub

// ControlType is the type of a control request
type ControlType int

const (
	ControlClear       ControlType = iota // ControlClear empties the window
	ControlRemember                       // ControlRemember checkpoints the read position
	ControlCommit                         // ControlCommit moves the read marker to the checkpoint
	ControlSetLastSeen                    // ControlSetLastSeen sets the last seen line ID
)

// ControlRequest can be sent to manipulate the window and its
// read marker
type ControlRequest interface {
	Type() ControlType
}

// Type satisfies the ControlRequest interface for ControlType itself
func (ct ControlType) Type() ControlType {
	return ct
}

// SetLastSeenRequest is a ControlRequest that sets the last seen line
type SetLastSeenRequest uint64

// Type satisfies the ControlRequest interface
func (r SetLastSeenRequest) Type() ControlType {
	return ControlSetLastSeen
}

// ID returns the ID of the line that was last seen
func (r SetLastSeenRequest) ID() uint64 {
	return uint64(r)
}
