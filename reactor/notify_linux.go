//go:build linux
// +build linux

// File: reactor/notify_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux eventfd(2)-backed wake bridge. Lets an in-process readiness raise
// wake a thread blocked in an external epoll wait: register FD() with the
// epoll instance, and Drain() after waking before the next wait.

package reactor

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// Notifier is an eventfd-backed wakeup primitive.
type Notifier struct {
	fd int
}

// NewNotifier creates a non-blocking eventfd notifier.
func NewNotifier() (*Notifier, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &Notifier{fd: fd}, nil
}

// FD returns the descriptor to register with an external epoll instance
// for EPOLLIN interest.
func (n *Notifier) FD() int {
	return n.fd
}

// Wake increments the eventfd counter, making FD readable. Wakes already
// pending coalesce; a full counter is treated as already-woken.
func (n *Notifier) Wake() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(n.fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

// Drain resets the eventfd counter so FD stops reporting readable.
func (n *Notifier) Drain() error {
	var buf [8]byte
	for {
		_, err := unix.Read(n.fd, buf[:])
		if err == unix.EAGAIN {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Close releases the eventfd.
func (n *Notifier) Close() error {
	return unix.Close(n.fd)
}
