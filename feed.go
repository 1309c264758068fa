package scrollback

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/scrollback/line"
	"github.com/peco/scrollback/pipeline"
)

func newLiveFeed(s *Session) *liveFeed {
	f := &liveFeed{session: s}
	f.Reset()
	return f
}

func (f *liveFeed) Reset() {
	f.done = make(chan struct{})
	f.err = nil
}

func (f *liveFeed) Done() <-chan struct{} {
	return f.done
}

// Accept delivers every line coming through the pipeline to the
// session, in order. It stops at the first delivery that fails
func (f *liveFeed) Accept(ctx context.Context, in chan interface{}, _ pipeline.ChanOutput) {
	if pdebug.Enabled {
		g := pdebug.Marker("liveFeed.Accept (%s)", f.session.Name())
		defer g.End()
	}
	defer close(f.done)

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-in:
			switch v := v.(type) {
			case error:
				if pipeline.IsEndMark(v) {
					return
				}
				trace("liveFeed.Accept: %s", v)
			case line.Line:
				if err := f.session.Deliver(ctx, v); err != nil {
					f.err = err
					return
				}
				f.delivered++
			}
		}
	}
}
