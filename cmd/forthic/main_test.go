package main

import (
	"io"
	"os"
	"testing"

	forthic "github.com/forthic-lang/forthic"
	"github.com/forthic-lang/forthic/internal/logio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardWriteCloser struct{ io.Writer }

func (discardWriteCloser) Close() error { return nil }

func newDiscardLogger() *logio.Logger {
	lg := &logio.Logger{}
	lg.SetOutput(discardWriteCloser{io.Discard})
	return lg
}

func TestReportRunErrorExitCodes(t *testing.T) {
	lg := newDiscardLogger()
	reportRunError(lg, forthic.IntentionalStopError{Reason: "done"})
	assert.Equal(t, 1, lg.ExitCode())

	lg = newDiscardLogger()
	reportRunError(lg, forthic.UnknownWordError{Word: "NOT-A-WORD"})
	assert.Equal(t, 2, lg.ExitCode())
}

func TestDispatchUnknownCommandExitsTwo(t *testing.T) {
	assert.Equal(t, 2, dispatch(nil, newDiscardLogger()))
	assert.Equal(t, 2, dispatch([]string{"bogus"}, newDiscardLogger()))
}

func TestCmdEvalArgCountExitsTwo(t *testing.T) {
	got := cmdEval([]string{}, newDiscardLogger())
	assert.Equal(t, 2, got)
}

func TestCmdEvalExitCodes(t *testing.T) {
	stdout, restore := captureStdout(t)
	got := cmdEval([]string{"1 2 +"}, newDiscardLogger())
	restore()
	assert.Equal(t, 0, got)
	assert.Contains(t, stdout(), "3")

	_, restore = captureStdout(t)
	got = cmdEval([]string{"NOT-A-WORD"}, newDiscardLogger())
	restore()
	assert.Equal(t, 2, got)
}

// captureStdout redirects os.Stdout to a pipe for the duration of a single
// test; the returned restore func must run before the returned reader func
// is called, so the pipe has been fully drained.
func captureStdout(t *testing.T) (read func() string, restore func()) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()

	return func() string { return <-done }, func() {
		w.Close()
		os.Stdout = orig
	}
}
