// Package sig turns operating system signals into context cancellation
package sig

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

// ReceivedHandler is notified of every signal. If Handle returns
// true, the signal is swallowed and Loop keeps waiting
type ReceivedHandler interface {
	Handle(os.Signal) bool
}

// ReceivedHandlerFunc adapts a function to ReceivedHandler
type ReceivedHandlerFunc func(os.Signal) bool

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(sig os.Signal) bool {
	return s(sig)
}

// ReceivedError is returned by Loop when it stopped because of a signal
type ReceivedError struct {
	Signal os.Signal
}

func (e *ReceivedError) Error() string {
	return fmt.Sprintf("received signal %s", e.Signal)
}

// ExitStatus follows the shell convention of 128 + signal number
func (e *ReceivedError) ExitStatus() int {
	if s, ok := e.Signal.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

// Handler listens for signals until its context is done
type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal
}

// New creates a new signal handler for the given signals (default:
// SIGTERM, SIGINT, SIGHUP). h may be nil
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	}
	if h == nil {
		h = ReceivedHandlerFunc(func(os.Signal) bool { return false })
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
	}
}

// Loop waits until ctx is done or a signal the handler does not
// swallow arrives. Either way cancel is called on the way out, so
// everything sharing ctx winds down too.
func (h *Handler) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer signal.Stop(h.sigCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-h.sigCh:
			if h.onSignalReceived.Handle(s) {
				continue
			}
			return errors.WithStack(&ReceivedError{Signal: s})
		}
	}
}
