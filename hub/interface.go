package hub

import (
	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/line"
)

// Hub acts as the messaging hub between components -- that is,
// it controls how the communication that goes through channels
// are handled.
type Hub struct {
	fetchCh     chan *Payload[FetchRequest]
	pageCh      chan *Payload[[]line.Line]
	lineCh      chan *Payload[line.Line]
	controlCh   chan *Payload[ControlRequest]
	snapshotCh  chan *Payload[*SnapshotRequest]
	statusMsgCh chan *Payload[StatusMsg]
}

// Payload is a wrapper around the actual request value that needs
// to be passed. It contains an optional channel field which can
// be filled to force synchronous communication between the
// sender and receiver
type Payload[T any] struct {
	data  T
	batch bool
	done  chan struct{}
}

// FetchRequest asks the owner of a window for another page of
// history. Pages counts how many increments to request in one go
type FetchRequest struct {
	Pages int
}

// SnapshotRequest asks the owner of a window for a copy of one of
// its views. The reply is delivered through Reply exactly once
type SnapshotRequest struct {
	filtered bool
	reply    chan *buffer.Snapshot
}
