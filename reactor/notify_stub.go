//go:build !linux
// +build !linux

// File: reactor/notify_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for platforms without eventfd support.

package reactor

import "errors"

// Notifier is not supported on this platform.
type Notifier struct{}

// NewNotifier returns an error on unsupported platforms.
func NewNotifier() (*Notifier, error) {
	return nil, errors.New("reactor: notifier is not supported on this platform")
}

// FD returns an invalid descriptor.
func (n *Notifier) FD() int { return -1 }

// Wake is a no-op.
func (n *Notifier) Wake() error { return nil }

// Drain is a no-op.
func (n *Notifier) Drain() error { return nil }

// Close is a no-op.
func (n *Notifier) Close() error { return nil }
