package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTestFile_SizeProperty(t *testing.T) {
	dir := t.TempDir()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("provisioned file has exactly the requested size", prop.ForAll(
		func(size int64) bool {
			path, err := createTestFile(dir, size)
			if err != nil {
				return false
			}
			defer os.Remove(path)
			got, err := statSize(path)
			return err == nil && got == size && filepath.Dir(path) == dir
		},
		gen.Int64Range(0, 2*zeroChunk+7),
	))

	properties.TestingRun(t)
}

func TestCreateTestFile_ZeroFilled(t *testing.T) {
	path, err := createTestFile(t.TempDir(), 5000)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 5000), data)
	assert.Regexp(t, `^testfile\d+$`, filepath.Base(path))
}

func TestCreateTestFile_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		path, err := createTestFile(dir, 1)
		require.NoError(t, err)
		assert.False(t, seen[path], "duplicate name %s", path)
		seen[path] = true
	}
}

func TestCreateTestFile_Failures(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		path, err := createTestFile(filepath.Join(t.TempDir(), "nope"), 10)
		require.Error(t, err)
		assert.Empty(t, path)
		assert.Equal(t, kindProvision, kindOf(err))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("negative size", func(t *testing.T) {
		dir := t.TempDir()
		path, err := createTestFile(dir, -1)
		require.Error(t, err)
		assert.Empty(t, path)
		assert.Equal(t, kindInvalidInput, kindOf(err))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// shortWriter accepts at most limit bytes per call without reporting an error.
type shortWriter struct{ limit int }

func (w shortWriter) Write(p []byte) (int, error) {
	return min(len(p), w.limit), nil
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

// chunkRecorder counts bytes and remembers the largest single write.
type chunkRecorder struct {
	total   int64
	largest int
}

func (c *chunkRecorder) Write(p []byte) (int, error) {
	c.total += int64(len(p))
	c.largest = max(c.largest, len(p))
	for _, b := range p {
		if b != 0 {
			return 0, errors.New("non-zero byte")
		}
	}
	return len(p), nil
}

func TestWriteZeros(t *testing.T) {
	t.Run("chunks large sizes", func(t *testing.T) {
		c := &chunkRecorder{}
		n, err := writeZeros(c, 3*zeroChunk+5)
		require.NoError(t, err)
		assert.Equal(t, int64(3*zeroChunk+5), n)
		assert.Equal(t, n, c.total)
		assert.Equal(t, zeroChunk, c.largest)
	})
	t.Run("zero size writes nothing", func(t *testing.T) {
		c := &chunkRecorder{}
		n, err := writeZeros(c, 0)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, c.largest)
	})
	t.Run("short write", func(t *testing.T) {
		n, err := writeZeros(shortWriter{limit: 10}, 100)
		assert.ErrorIs(t, err, io.ErrShortWrite)
		assert.Equal(t, int64(10), n)
	})
	t.Run("write error", func(t *testing.T) {
		boom := errors.New("disk full")
		_, err := writeZeros(failWriter{err: boom}, 100)
		assert.ErrorIs(t, err, boom)
	})
}
