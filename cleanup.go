package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// tempFile owns the test file for the length of a run.
type tempFile struct {
	path string
	once sync.Once
	err  error
}

// remove deletes the file the first time it is called and repeats that
// result afterwards. A file that is already gone is not an error.
func (t *tempFile) remove() error {
	t.once.Do(func() {
		if t.path == "" {
			return
		}
		if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.err = fmt.Errorf("remove %s: %w", t.path, err)
		}
	})
	return t.err
}

// removeOnSignal removes tf and exits with status 130 on SIGINT or SIGTERM.
// before runs first, if set. The returned func stops listening.
func removeOnSignal(tf *tempFile, stderr io.Writer, before func(), exit func(int)) (release func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			if before != nil {
				before()
			}
			tf.remove()
			fmt.Fprintf(stderr, "\nInterrupted\n")
			exit(130)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
