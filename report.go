package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"seekcheck/retrodfrg"
)

// stepObserver is told about every step the run finishes. value is the
// position, size or descriptor the step produced.
type stepObserver interface {
	stepPassed(step string, value int64)
	stepFailed(step string, err error)
}

type nopObserver struct{}

func (nopObserver) stepPassed(string, int64) {}
func (nopObserver) stepFailed(string, error) {}

type observers []stepObserver

func (o observers) stepPassed(step string, value int64) {
	for _, ob := range o {
		ob.stepPassed(step, value)
	}
}

func (o observers) stepFailed(step string, err error) {
	for _, ob := range o {
		ob.stepFailed(step, err)
	}
}

type logObserver struct {
	log *slog.Logger
}

func (l logObserver) stepPassed(step string, value int64) {
	l.log.Debug("step passed", "step", step, "value", value)
}

func (l logObserver) stepFailed(step string, err error) {
	attrs := []any{"step", step, "kind", string(kindOf(err)), "err", err}
	var ce *checkError
	if errors.As(err, &ce) && ce.Kind == kindMismatch {
		attrs = append(attrs, "expected", ce.Expected, "actual", ce.Actual)
	}
	l.log.Error("step failed", attrs...)
}

// boardObserver ticks phases off on the full-screen board.
type boardObserver struct {
	ui    *retrodfrg.UI
	lines []string
}

const boardStatusLines = 6

func (b *boardObserver) stepPassed(step string, value int64) {
	b.ui.SetPhaseDone(step)
	b.push(fmt.Sprintf("%-16s ok   %d", step, value))
}

func (b *boardObserver) stepFailed(step string, err error) {
	b.ui.SetPhaseFailed(step)
	b.push(fmt.Sprintf("%-16s FAIL %v", step, err))
}

func (b *boardObserver) push(line string) {
	b.lines = append(b.lines, line)
	if len(b.lines) > boardStatusLines {
		b.lines = b.lines[len(b.lines)-boardStatusLines:]
	}
	b.ui.SetStatusLines(b.lines)
	b.ui.LayoutAndDraw()
}

// heldOutput collects what the run prints while the board owns the terminal.
// It is written by the run and drained by whichever of the normal exit path
// or the signal handler gets there first.
type heldOutput struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (h *heldOutput) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.Write(p)
}

func (h *heldOutput) drain(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = h.buf.WriteTo(w)
}

// boardTeardown returns a func that closes the board and then replays the
// held output. Only the first call has any effect.
func boardTeardown(closeBoard func(), held, heldErr *heldOutput, stdout, stderr io.Writer) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			closeBoard()
			held.drain(stdout)
			heldErr.drain(stderr)
		})
	}
}
