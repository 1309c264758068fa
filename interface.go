// Package scrollback keeps a bounded, filterable window over a
// conversation history, fed by paging backwards through the history
// and by live traffic, and remembers where the reader left off.
package scrollback

import (
	"io"
	"sync"

	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/config"
	"github.com/peco/scrollback/hub"
	"github.com/peco/scrollback/line"
)

const version = "v0.1.0"

const (
	epochOffset = 946684800
	hostIDBits  = 16
	serialBits  = 12
	serialShift = 16
	timeShift   = 28
)

// maximum length of a single line read from the input, in kb
const maxScanBufferSize = 256

// idGen hands out line IDs made of the time, a per second serial
// and a seed. IDs increase monotonically and are never zero
type idGen struct {
	mutex    sync.Mutex
	seed     uint64
	serialID int64
	timeID   int64
	now      func() int64
}

// History is an append-only log of lines. It plays the part of the
// remote end that windows fetch pages of history from
type History struct {
	mutex    sync.RWMutex
	capacity int
	lines    []line.Line
	trimmed  int
	done     chan struct{}
}

// Source reads lines from an io.Reader and sends them down a
// pipeline as line.Line values
type Source struct {
	name  string
	in    io.Reader
	idgen line.IDGenerator
	cfg   *config.Config
	read  int
}

// SessionOption configures a Session
type SessionOption func(*Session)

// Session owns a buffer.Window. Loop is the only goroutine that
// ever touches the window; everybody else talks to it through the
// hub.
type Session struct {
	name          string
	hub           *hub.Hub
	history       *History
	window        *buffer.Window
	windowOptions []buffer.Option
	increment     int
	statusMsgs    bool
	loopDone      chan struct{}

	// owned by Loop
	inflight *hub.Payload[hub.FetchRequest]
	queued   []*hub.Payload[hub.FetchRequest]
	missed   []line.Line
}

// liveFeed is the pipeline destination that hands lines to a
// Session as live traffic
type liveFeed struct {
	session   *Session
	delivered int
	err       error
	done      chan struct{}
}

// CLIOptions holds the command line options
type CLIOptions struct {
	OptHelp      bool   `short:"h" long:"help" description:"show this help message and exit"`
	OptRcfile    string `long:"rcfile" description:"path to the settings file"`
	OptVersion   bool   `long:"version" description:"print the version and exit"`
	OptIncrement int    `long:"increment" short:"n" description:"number of lines fetched per page (default 200)"`
	OptPages     int    `long:"pages" short:"p" description:"number of pages of history to fetch (default 1)"`
	OptLastSeen  int    `long:"last-seen" short:"l" description:"line number (1 base) in FILE that was read last"`
	OptAll       bool   `long:"all" short:"a" description:"also print lines hidden by the filter"`
	OptFollow    bool   `long:"follow" short:"f" description:"after fetching history, read live lines from stdin"`
	OptVerbose   bool   `long:"verbose" short:"v" description:"trace what is going on to stderr"`
}

// Scrollback is the global object containing everything required
// to run the scrollback command
type Scrollback struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	args    []string
	config  config.Config
	idgen   *idGen
	options CLIOptions
	history *History
	session *Session
}
