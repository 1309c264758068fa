package scrollback

import "github.com/pkg/errors"

type errIgnorable struct {
	err error
}

func (e errIgnorable) Ignorable() bool { return true }
func (e errIgnorable) Unwrap() error { return e.err }
func (e errIgnorable) Error() string {
	return e.err.Error()
}

// makeIgnorable marks an error as one that should not be reported,
// such as the user asking for the help message
func makeIgnorable(err error) error {
	return &errIgnorable{err: err}
}

type errWithExitStatus struct {
	err    error
	status int
}

func (e errWithExitStatus) Error() string {
	return e.err.Error()
}

func (e errWithExitStatus) Unwrap() error {
	return e.err
}

func (e errWithExitStatus) ExitStatus() int {
	return e.status
}

func setExitStatus(err error, status int) error {
	return &errWithExitStatus{err: err, status: status}
}

var errNoInput = errors.New("you must supply something to work with via filename or stdin")
