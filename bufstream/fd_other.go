//go:build !(linux || darwin || freebsd || openbsd || netbsd || dragonfly || solaris)

package bufstream

import "errors"

// Tell is only implemented on unix.
func Tell(fd int) (int64, error) {
	return -1, errors.ErrUnsupported
}

// SeekFd is only implemented on unix.
func SeekFd(fd int, offset int64, whence int) (int64, error) {
	return -1, errors.ErrUnsupported
}

// Dup is only implemented on unix.
func Dup(fd int) (int, error) {
	return -1, errors.ErrUnsupported
}

// CloseFd is only implemented on unix.
func CloseFd(fd int) error {
	return errors.ErrUnsupported
}
