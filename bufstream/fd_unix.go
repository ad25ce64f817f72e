//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly || solaris

package bufstream

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Tell queries the kernel offset of fd with lseek(fd, 0, SEEK_CUR).
func Tell(fd int) (int64, error) {
	off, err := unix.Seek(fd, 0, io.SeekCurrent)
	if err != nil {
		return -1, fmt.Errorf("lseek(%d, 0, SEEK_CUR): %w", fd, err)
	}
	return off, nil
}

// SeekFd moves the kernel offset of fd. Any Stream on fd does not notice.
func SeekFd(fd int, offset int64, whence int) (int64, error) {
	off, err := unix.Seek(fd, offset, whence)
	if err != nil {
		return -1, fmt.Errorf("lseek(%d, %d, %d): %w", fd, offset, whence, err)
	}
	return off, nil
}

// Dup duplicates fd with F_DUPFD_CLOEXEC. The copy shares the open file
// description, and with it the file offset.
func Dup(fd int) (int, error) {
	nfd, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("dup(%d): %w", fd, err)
	}
	return nfd, nil
}

// CloseFd closes a raw descriptor that no Stream owns.
func CloseFd(fd int) error {
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close(%d): %w", fd, err)
	}
	return nil
}
