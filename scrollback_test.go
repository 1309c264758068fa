package scrollback

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/peco/scrollback/internal/util"
	"github.com/stretchr/testify/require"
)

const testHistory = `alice	hello
-->	bob has joined
bob	hi alice
alice	how are you
bob	fine
`

type runResult struct {
	stdout string
	stderr string
	err    error
}

func runScrollback(t *testing.T, stdin string, argv ...string) runResult {
	t.Helper()

	dir := t.TempDir()
	rcfile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(rcfile, []byte(`{"HighlightWords": ["alice"]}`), 0o644))

	var stdout, stderr bytes.Buffer
	s := New()
	s.Argv = append([]string{"--rcfile", rcfile}, argv...)
	s.Stdin = strings.NewReader(stdin)
	s.Stdout = &stdout
	s.Stderr = &stderr

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := s.Run(ctx)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeHistory(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "#scrollback.log")
	require.NoError(t, os.WriteFile(file, []byte(testHistory), 0o644))
	return file
}

func TestRun_Help(t *testing.T) {
	r := runScrollback(t, "", "--help")
	require.Error(t, r.err)
	require.True(t, util.IsIgnorableError(r.err))
	require.Contains(t, r.stdout, "Usage: scrollback [options] [FILE]")
	require.Contains(t, r.stdout, "--last-seen")

	r = runScrollback(t, "", "--version")
	require.True(t, util.IsIgnorableError(r.err))
	require.Equal(t, "scrollback: "+version+"\n", r.stdout)
}

func TestRun_BadArguments(t *testing.T) {
	for _, argv := range [][]string{
		{"--no-such-option"},
		{"--pages", "-2"},
		{"--increment", "nope"},
	} {
		r := runScrollback(t, "", argv...)
		require.Error(t, r.err, "%v", argv)
		require.False(t, util.IsIgnorableError(r.err))
		st, ok := util.GetExitStatus(r.err)
		require.True(t, ok)
		require.Equal(t, 1, st)
		require.Contains(t, r.stderr, "Usage: scrollback")
	}

	r := runScrollback(t, "", filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, r.err)
	require.ErrorIs(t, r.err, os.ErrNotExist)

	r = runScrollback(t, "", "--last-seen", "42", writeHistory(t))
	require.Error(t, r.err)
	require.Contains(t, r.err.Error(), "--last-seen")
}

func TestRun_Window(t *testing.T) {
	r := runScrollback(t, "", "--increment", "3", "--last-seen", "3", writeHistory(t))
	require.NoError(t, r.err)
	require.Equal(t, `== #scrollback.log: 3 lines, more history available ==
* bob hi alice
------ unread ------
alice how are you
bob fine
`, r.stdout)
}

func TestRun_AllPages(t *testing.T) {
	r := runScrollback(t, "", "--increment", "3", "--pages", "2", "--all", writeHistory(t))
	require.NoError(t, r.err)
	require.Equal(t, `== #scrollback.log: 5 lines, beginning of history ==
alice hello
--> bob has joined
* bob hi alice
alice how are you
bob fine
`, r.stdout)
}

func TestRun_HistoryFromStdin(t *testing.T) {
	r := runScrollback(t, testHistory)
	require.NoError(t, r.err)
	require.Equal(t, `== stdin: 4 lines, beginning of history ==
alice hello
* bob hi alice
alice how are you
bob fine
`, r.stdout)
}

func TestRun_Follow(t *testing.T) {
	live := "carol\tyo alice\n-->\tdave has joined\ncarol\tanyone?\n"
	r := runScrollback(t, live, "--follow", "--last-seen", "1", writeHistory(t))
	require.NoError(t, r.err)
	require.Equal(t, `== #scrollback.log: 6 lines, beginning of history ==
alice hello
* bob hi alice
alice how are you
bob fine
------ unread ------
* carol yo alice
carol anyone?
`, r.stdout)
}

func TestRun_FollowWithoutHistory(t *testing.T) {
	r := runScrollback(t, "bob\tfirst\nbob\tsecond\n", "--follow")
	require.NoError(t, r.err)
	// nothing was resident at the checkpoint, so everything counts as read
	require.Equal(t, `== stdin: 2 lines, beginning of history ==
bob first
bob second
------ unread ------
`, r.stdout)
}
