package scrollback

import (
	"bufio"
	"context"
	"io"
	"strings"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/config"
	"github.com/peco/scrollback/internal/util"
	"github.com/peco/scrollback/line"
	"github.com/peco/scrollback/pipeline"
	"github.com/pkg/errors"
)

// ParseLine turns a line of text in "prefix<TAB>message" form into
// a line.Line. Text without a tab is a status line with no prefix.
// Lines whose prefix is listed in cfg.HiddenPrefixes are invisible,
// and messages mentioning one of cfg.HighlightWords are highlighted.
func ParseLine(id uint64, text string, cfg *config.Config) *line.Raw {
	text = strings.TrimRight(text, "\r\n")

	prefix, msg, found := strings.Cut(text, "\t")
	if !found {
		return line.NewRaw(id, line.TypeOther, "", text, true, false)
	}

	// hidden prefixes are matched without colors
	hidden := cfg.IsHidden(util.StripANSISequence(prefix))
	typ := line.TypeMessage
	if hidden || prefix == "" {
		typ = line.TypeOther
	}
	highlighted := typ == line.TypeMessage && cfg.IsHighlighted(util.StripANSISequence(msg))
	return line.NewRaw(id, typ, prefix, msg, !hidden, highlighted)
}

// NewSource creates a new Source. Nothing is read until Start is called
func NewSource(name string, in io.Reader, idgen line.IDGenerator, cfg *config.Config) *Source {
	return &Source{
		name:  name,
		in:    in,
		idgen: idgen,
		cfg:   cfg,
	}
}

func (s *Source) Name() string {
	return s.name
}

// Reset does nothing: a Source can only be read once
func (s *Source) Reset() {
}

// Read returns the number of lines sent so far. It may only be
// called after the pipeline is done
func (s *Source) Read() int {
	return s.read
}

// Start reads the input line by line, and sends each parsed line
// to out. Empty lines are skipped. An end mark is always sent last
func (s *Source) Start(ctx context.Context, out pipeline.ChanOutput) {
	if pdebug.Enabled {
		g := pdebug.Marker("Source.Start (%s)", s.name)
		defer g.End()
		defer func() { pdebug.Printf("Source %s sent %d lines", s.name, s.read) }()
	}
	defer func() { _ = out.SendEndMark(ctx, "end of "+s.name) }()

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanBufferSize*1024)

	// scanner.Scan() blocks until the next read, but we need to be
	// able to bail out when ctx is cancelled, so lines are read in
	// their own goroutine
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		defer func() { errCh <- scanner.Err() }()
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case lines <- scanner.Text():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if pdebug.Enabled {
				pdebug.Printf("Source %s: context.Done detected", s.name)
			}
			return
		case text, ok := <-lines:
			if !ok {
				if err := <-errCh; err != nil {
					tracer.Printf("Source %s: %s", s.name, errors.Wrap(err, "failed to read input"))
				}
				return
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			if err := out.Send(ctx, ParseLine(s.idgen.Next(), text, s.cfg)); err != nil {
				return
			}
			s.read++
		}
	}
}
