package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	testFilePattern = "testfile*"
	zeroChunk       = 1 << 20
)

// createTestFile creates a uniquely named file in dir holding size zero
// bytes and returns its path. The name is reserved atomically (O_EXCL), so
// concurrent callers never share a file. On failure nothing is left behind
// and the returned path is empty.
func createTestFile(dir string, size int64) (string, error) {
	if size < 0 {
		return "", failure(kindInvalidInput, "create test file", fmt.Errorf("negative size %d", size))
	}
	f, err := os.CreateTemp(dir, testFilePattern)
	if err != nil {
		return "", failure(kindProvision, "create temp file", err)
	}
	path := f.Name()

	written, err := writeZeros(f, size)
	if err != nil {
		f.Close()
		os.Remove(path)
		if errors.Is(err, io.ErrShortWrite) {
			return "", failure(kindProvision, "write", fmt.Errorf("%w: wrote %d of %d bytes", err, written, size))
		}
		return "", failure(kindProvision, "write", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", failure(kindProvision, "close", err)
	}
	return path, nil
}

// writeZeros writes size zero bytes to w from a buffer of at most zeroChunk
// bytes and returns how many were accepted.
func writeZeros(w io.Writer, size int64) (int64, error) {
	buf := make([]byte, min(size, zeroChunk))
	var written int64
	for written < size {
		k := min(size-written, zeroChunk)
		n, err := w.Write(buf[:k])
		written += int64(n)
		if err != nil {
			return written, err
		}
		if int64(n) != k {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}
