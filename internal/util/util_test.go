package util

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStripANSISequence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ANSI", "hello", "hello"},
		{"empty string", "", ""},
		{"bold", "\x1B[1mhello\x1B[0m", "hello"},
		{"color red", "\x1B[31mred text\x1B[0m", "red text"},
		{"multiple sequences", "\x1B[1m\x1B[31mhello\x1B[0m", "hello"},
		{"color with semicolon", "\x1B[1;31mbold red\x1B[0m", "bold red"},
		{"mixed content", "before\x1B[32mgreen\x1B[0mafter", "beforegreenafter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, StripANSISequence(tt.input))
		})
	}
}

// Mock error types for testing error interface checks

type mockIgnorableError struct {
	ignorable bool
	msg       string
}

func (e *mockIgnorableError) Error() string   { return e.msg }
func (e *mockIgnorableError) Ignorable() bool { return e.ignorable }

type mockExitStatusError struct {
	status int
	msg    string
}

func (e *mockExitStatusError) Error() string   { return e.msg }
func (e *mockExitStatusError) ExitStatus() int { return e.status }

func TestIsIgnorableError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"ignorable true", &mockIgnorableError{ignorable: true, msg: "test"}, true},
		{"ignorable false", &mockIgnorableError{ignorable: false, msg: "test"}, false},
		{"non-ignorable error", errors.New("plain error"), false},
		{"wrapped ignorable", fmt.Errorf("wrapper: %w", &mockIgnorableError{ignorable: true, msg: "inner"}), true},
		{"pkg/errors wrapped ignorable", errors.Wrap(&mockIgnorableError{ignorable: true, msg: "inner"}, "wrapper"), true},
		{"wrapped non-ignorable", fmt.Errorf("wrapper: %w", errors.New("plain")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, IsIgnorableError(tt.err))
		})
	}
}

func TestGetExitStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedFound  bool
	}{
		{"exit status 0", &mockExitStatusError{status: 0, msg: "test"}, 0, true},
		{"exit status 42", &mockExitStatusError{status: 42, msg: "test"}, 42, true},
		{"plain error", errors.New("plain"), 1, false},
		{"wrapped exit status", errors.Wrap(&mockExitStatusError{status: 2, msg: "inner"}, "wrapper"), 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, found := GetExitStatus(tt.err)
			require.Equal(t, tt.expectedStatus, status)
			require.Equal(t, tt.expectedFound, found)
		})
	}
}
