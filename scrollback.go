package scrollback

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/mattn/go-runewidth"
	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/config"
	"github.com/peco/scrollback/line"
	"github.com/peco/scrollback/pipeline"
	"github.com/peco/scrollback/sig"
	"github.com/pkg/errors"
)

type traceLogger interface {
	Printf(string, ...interface{})
}
type nullTraceLogger struct{}

func (ntl nullTraceLogger) Printf(_ string, _ ...interface{}) {}

var tracer traceLogger = nullTraceLogger{}

func init() {
	if v, err := strconv.ParseBool(os.Getenv("SCROLLBACK_TRACE")); err == nil && v {
		tracer = log.New(os.Stderr, "scrollback: ", log.LstdFlags)
		tracer.Printf("==== INITIALIZED tracer ====")
	}
}

func trace(f string, args ...interface{}) {
	tracer.Printf(f, args...)
}

// traceLoggerFunc lets the current tracer be handed out as a
// buffer.Logger, even if it is replaced later
type traceLoggerFunc func(string, ...interface{})

func (f traceLoggerFunc) Printf(s string, args ...interface{}) {
	f(s, args...)
}

// New creates a new Scrollback that reads its arguments and input
// from the current process
func New() *Scrollback {
	return &Scrollback{
		Argv:   os.Args[1:],
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		idgen:  newIDGen(uint64(time.Now().UnixNano())),
	}
}

// Run parses the command line, loads the history, fetches the
// requested number of pages, optionally follows live traffic, and
// prints what the reader would see.
func (s *Scrollback) Run(ctx context.Context) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Scrollback.Run").BindError(&err)
		defer g.End()
	}

	if err := s.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigErr := make(chan error, 1)
	go func() {
		sigErr <- sig.New(sig.ReceivedHandlerFunc(func(received os.Signal) bool {
			trace("received signal %s", received)
			return false
		})).Loop(ctx, cancel)
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	s.session = NewSession(s.sessionName(),
		s.history,
		WithIncrement(s.config.LineIncrement),
		WithStatusMessages(true),
		WithWindowOptions(buffer.WithMarkerReset(s.config.ResetMarkerOnClear)),
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := s.session.Loop(ctx); err != nil {
			trace("session loop: %s", err)
		}
	}()
	go func() {
		defer wg.Done()
		s.drainStatusMessages(ctx)
	}()

	if err := s.fill(ctx); err != nil {
		select {
		case serr := <-sigErr:
			if serr != nil && !errors.Is(serr, context.Canceled) {
				return serr
			}
		default:
		}
		return err
	}

	snap, err := s.session.Snapshot(ctx, s.config.FilterLines && !s.options.OptAll)
	if err != nil {
		return err
	}
	return s.Print(snap)
}

// Setup parses the command line options and reads the config file
// and the history. It does not talk to the session
func (s *Scrollback) Setup() error {
	if s.idgen == nil {
		s.idgen = newIDGen(uint64(time.Now().UnixNano()))
	}

	args, err := s.options.parse(s.Argv)
	if err != nil {
		_, _ = s.Stderr.Write(s.options.help())
		return setExitStatus(err, 1)
	}
	s.args = args

	if s.options.OptHelp {
		_, _ = s.Stdout.Write(s.options.help())
		return makeIgnorable(errors.New("user asked to show help message"))
	}

	if s.options.OptVersion {
		fmt.Fprintf(s.Stdout, "scrollback: %s\n", version)
		return makeIgnorable(errors.New("user asked to show version"))
	}

	if s.options.OptVerbose {
		tracer = log.New(s.Stderr, "scrollback: ", log.LstdFlags)
	}

	if err := s.config.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize config")
	}

	rcfile := s.options.OptRcfile
	if rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			rcfile = file
		}
	}
	if rcfile != "" {
		trace("reading config from %s", rcfile)
		if err := s.config.ReadFilename(rcfile); err != nil {
			return setExitStatus(errors.Wrapf(err, "failed to read config %s", rcfile), 1)
		}
	}
	if s.options.OptIncrement > 0 {
		s.config.LineIncrement = s.options.OptIncrement
	}

	s.history = NewHistory(0)
	return nil
}

func (s *Scrollback) sessionName() string {
	if len(s.args) > 0 {
		return filepath.Base(s.args[0])
	}
	return "stdin"
}

// fill loads the history, positions the read marker and pages the
// history into the window. With --follow, stdin is then read as
// live traffic
func (s *Scrollback) fill(ctx context.Context) error {
	var in io.Reader
	switch {
	case len(s.args) > 0:
		f, err := os.Open(s.args[0])
		if err != nil {
			return setExitStatus(errors.Wrap(err, "failed to open history"), 1)
		}
		defer f.Close()
		in = f
	case !s.options.OptFollow:
		if s.Stdin == nil {
			return setExitStatus(errNoInput, 1)
		}
		in = s.Stdin
	}

	if in != nil {
		if err := s.runPipeline(ctx, NewSource(s.sessionName(), in, s.idgen, &s.config), s.history); err != nil {
			return errors.Wrap(err, "failed to read history")
		}
	}
	trace("history has %d lines", s.history.Size())

	if n := s.options.OptLastSeen; n > 0 {
		l, err := s.history.LineAt(n - 1)
		if err != nil {
			return setExitStatus(errors.Wrap(err, "invalid --last-seen"), 1)
		}
		if err := s.session.SetLastSeenLine(ctx, l.ID()); err != nil {
			return err
		}
	}

	if err := s.session.RequestMoreLines(ctx, s.options.Pages()); err != nil {
		return err
	}

	if !s.options.OptFollow {
		return nil
	}

	// everything fetched so far has been looked at; what comes in
	// from now on is unread
	if err := s.session.RememberReadPosition(ctx); err != nil {
		return err
	}
	feed := newLiveFeed(s.session)
	if err := s.runPipeline(ctx, NewSource("live", s.Stdin, s.idgen, &s.config), feed); err != nil {
		return errors.Wrap(err, "failed to follow live lines")
	}
	if feed.err != nil {
		return feed.err
	}
	trace("delivered %d live lines", feed.delivered)
	return s.session.MarkRead(ctx)
}

func (s *Scrollback) runPipeline(ctx context.Context, src pipeline.Source, dst pipeline.Destination) error {
	p := pipeline.New()
	p.SetSource(src)
	p.SetDestination(dst)
	return p.Run(ctx)
}

func (s *Scrollback) drainStatusMessages(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-s.session.StatusMsgCh():
			trace("%s", p.Data().Message())
			p.Done()
		}
	}
}

// marker line is at least this wide
const minMarkerWidth = 20

// Print writes the snapshot to Stdout. The header sentinel becomes
// a summary of the window, and the read marker becomes a ruler
func (s *Scrollback) Print(snap *buffer.Snapshot) error {
	lines := snap.Lines()
	var count int
	for _, l := range lines {
		if !line.IsSentinel(l.ID()) {
			count++
		}
	}

	width := max(snap.MaxColumn(), minMarkerWidth)
	for _, l := range lines {
		var err error
		switch l.ID() {
		case line.HeaderID:
			_, err = fmt.Fprintf(s.Stdout, "== %s: %d lines, %s ==\n", s.sessionName(), count, describeStatus(snap))
		case line.MarkerID:
			label := " unread "
			pad := max(width-runewidth.StringWidth(label), 0)
			_, err = fmt.Fprintf(s.Stdout, "%s%s%s\n", strings.Repeat("-", pad/2), label, strings.Repeat("-", pad-pad/2))
		default:
			var mark string
			if l.Highlighted() {
				mark = "* "
			}
			_, err = fmt.Fprintf(s.Stdout, "%s%s\n", mark, l.DisplayString())
		}
		if err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	return nil
}

func describeStatus(snap *buffer.Snapshot) string {
	switch snap.Status() {
	case buffer.StatusCanFetchMore:
		return "more history available"
	case buffer.StatusEverythingFetched:
		return "beginning of history"
	default:
		return strings.ToLower(snap.Status().String())
	}
}
