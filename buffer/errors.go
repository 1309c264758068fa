package buffer

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFetchInProgress is returned by AddLast when a page of history
// is being fetched. The line is dropped; the error is ignorable.
var ErrFetchInProgress error = fetchInProgressError{}

type fetchInProgressError struct{}

func (fetchInProgressError) Error() string {
	return "lines are being fetched"
}

func (fetchInProgressError) Ignorable() bool {
	return true
}

// StateError reports a method called in a fetch state it does not
// allow. This is a bug in the caller, not a runtime condition.
type StateError struct {
	Op     string
	Status FetchStatus
	Want   FetchStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s called while status is %s (expected %s)", e.Op, e.Status, e.Want)
}

// ProgrammingError always returns true
func (e *StateError) ProgrammingError() bool {
	return true
}

type programmingError interface {
	ProgrammingError() bool
}

// IsProgrammingError returns true if err, or any error it wraps,
// signals misuse of the API
func IsProgrammingError(err error) bool {
	var pe programmingError
	if errors.As(err, &pe) {
		return pe.ProgrammingError()
	}
	return false
}
