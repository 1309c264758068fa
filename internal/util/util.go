package util

import (
	"regexp"

	"github.com/pkg/errors"
)

// Global var used to strips ansi sequences
var reANSIEscapeChars = regexp.MustCompile("\x1B\\[(?:[0-9]{1,2}(?:;[0-9]{1,2})?)*[a-zA-Z]")

// StripANSISequence strips ANSI escape sequences from the given string
func StripANSISequence(s string) string {
	return reANSIEscapeChars.ReplaceAllString(s, "")
}

type ignorable interface {
	Ignorable() bool
}

type exitStatuser interface {
	ExitStatus() int
}

// IsIgnorableError returns true if err, or any error it wraps,
// says it can be safely ignored
func IsIgnorableError(err error) bool {
	var v ignorable
	if errors.As(err, &v) {
		return v.Ignorable()
	}
	return false
}

// GetExitStatus returns the exit status carried by err, if any.
// The second return value is false if no error in the chain
// carries an exit status, in which case 1 is returned
func GetExitStatus(err error) (int, bool) {
	var ese exitStatuser
	if errors.As(err, &ese) {
		return ese.ExitStatus(), true
	}
	return 1, false
}
