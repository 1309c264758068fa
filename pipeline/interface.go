package pipeline

import (
	"context"
	"sync"
)

// EndMarker is an interface for things that tell us the input
// sequence has ended
type EndMarker interface {
	error
	EndMark() bool
}

// EndMark is a dummy struct that gets send as an EOL mark of sorts
type EndMark struct{}

// ChanOutput is the channel stages write their output to
type ChanOutput chan interface{}

// Source produces the values of the pipeline. Start must send an
// end mark when it runs out of input
type Source interface {
	Start(context.Context, ChanOutput)
	Reset()
}

// Acceptor consumes values from the channel it is given
type Acceptor interface {
	Accept(context.Context, chan interface{}, ChanOutput)
}

// Destination is the Acceptor at the end of the pipeline. Done is
// closed once it has stopped consuming
type Destination interface {
	Reset()
	Done() <-chan struct{}
	Acceptor
}

// Pipeline connects a Source to a Destination
type Pipeline struct {
	done  chan struct{}
	mutex sync.Mutex
	src   Source
	dst   Destination
}
