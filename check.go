package main

import (
	"errors"
	"fmt"
	"io"

	"seekcheck/bufstream"
)

// positionVia selects which handle performs the seek to the target offset.
type positionVia string

const (
	viaStream     positionVia = "stream"
	viaDescriptor positionVia = "fd"
)

func parseVia(s string) (positionVia, error) {
	switch positionVia(s) {
	case viaStream, viaDescriptor:
		return positionVia(s), nil
	}
	return "", failure(kindInvalidInput, "parse --via", fmt.Errorf("unknown handle %q (want stream or fd)", s))
}

type checkOptions struct {
	Via positionVia
	// SkipResync leaves the stream unaware of a descriptor-level seek. It
	// exists to prove that the check catches a stale cursor.
	SkipResync bool
	BufferSize int

	// skew, when set, rewrites each queried position before it is compared.
	skew func(step string, pos int64) int64
}

// Step names, in execution order.
const (
	stepCreate     = "create"
	stepStat       = "stat"
	stepOpen       = "fopen"
	stepFileno     = "fileno"
	stepSeek       = "seek"
	stepStreamTell = "stream-tell"
	stepFdTell     = "fd-tell"
	stepDup        = "dup"
	stepDupTell    = "dup-tell"
	stepWrap       = "fdopen"
	stepWrapTell   = "dup-stream-tell"
	stepDupRetell  = "dup-retell"
	stepClose      = "close"
)

var checkSteps = []string{
	stepStat, stepOpen, stepFileno, stepSeek, stepStreamTell, stepFdTell,
	stepDup, stepDupTell, stepWrap, stepWrapTell, stepDupRetell, stepClose,
}

// targetOffset is three quarters of size in integer arithmetic: size/4*3.
func targetOffset(size int64) int64 {
	return size / 4 * 3
}

// checkFile seeks into the file at path and verifies that the stream, its
// descriptor, a duplicate of that descriptor and a stream on the duplicate
// all report the same offset. It stops at the first disagreement.
func checkFile(path string, opts checkOptions, obs stepObserver, out io.Writer) error {
	if obs == nil {
		obs = nopObserver{}
	}

	size, err := statSize(path)
	if err != nil {
		e := failure(kindMetadata, stepStat, err)
		obs.stepFailed(stepStat, e)
		return e
	}
	target := targetOffset(size)
	fmt.Fprintf(out, "file size: %d\nfile pos: %d\n", size, target)
	obs.stepPassed(stepStat, size)

	s, err := bufstream.OpenSize(path, opts.BufferSize)
	if err != nil {
		e := failure(kindHandle, stepOpen, err)
		obs.stepFailed(stepOpen, e)
		return e
	}
	obs.stepPassed(stepOpen, 0)

	var (
		dupfd = -1
		ds    *bufstream.Stream
	)
	abort := func(e *checkError) error {
		switch {
		case ds != nil:
			ds.Close()
		case dupfd >= 0:
			bufstream.CloseFd(dupfd)
		}
		s.Close()
		obs.stepFailed(e.Op, e)
		return e
	}
	// expect queries a position and compares it with target.
	expect := func(step string, query func() (int64, error)) error {
		pos, err := query()
		if err != nil {
			return abort(failure(kindPositioning, step, err))
		}
		if opts.skew != nil {
			pos = opts.skew(step, pos)
		}
		if pos != target {
			return abort(mismatch(step, target, pos))
		}
		obs.stepPassed(step, pos)
		return nil
	}

	fd, err := s.Fd()
	if err != nil {
		return abort(failure(kindHandle, stepFileno, err))
	}
	obs.stepPassed(stepFileno, int64(fd))

	if err := seekTo(s, fd, target, opts); err != nil {
		return abort(failure(kindPositioning, stepSeek, err))
	}
	obs.stepPassed(stepSeek, target)

	if err := expect(stepStreamTell, s.Tell); err != nil {
		return err
	}
	if err := expect(stepFdTell, func() (int64, error) { return bufstream.Tell(fd) }); err != nil {
		return err
	}

	dupfd, err = bufstream.Dup(fd)
	if err != nil {
		return abort(failure(kindHandle, stepDup, err))
	}
	obs.stepPassed(stepDup, int64(dupfd))

	if err := expect(stepDupTell, func() (int64, error) { return bufstream.Tell(dupfd) }); err != nil {
		return err
	}

	ds, err = bufstream.FromFd(dupfd, path)
	if err != nil {
		return abort(failure(kindHandle, stepWrap, err))
	}
	obs.stepPassed(stepWrap, int64(dupfd))

	if err := expect(stepWrapTell, ds.Tell); err != nil {
		return err
	}
	if err := expect(stepDupRetell, func() (int64, error) { return bufstream.Tell(dupfd) }); err != nil {
		return err
	}

	dupErr := ds.Close()
	if err := errors.Join(s.Close(), dupErr); err != nil {
		e := failure(kindClose, stepClose, err)
		obs.stepFailed(stepClose, e)
		return e
	}
	obs.stepPassed(stepClose, 0)
	return nil
}

// seekTo positions s at target through the handle opts.Via names. A seek on
// the descriptor is invisible to the stream until it is resynchronised.
func seekTo(s *bufstream.Stream, fd int, target int64, opts checkOptions) error {
	if opts.Via != viaDescriptor {
		_, err := s.Seek(target, io.SeekStart)
		return err
	}
	if _, err := bufstream.SeekFd(fd, target, io.SeekStart); err != nil {
		return err
	}
	if opts.SkipResync {
		return nil
	}
	_, err := s.Resync()
	return err
}
