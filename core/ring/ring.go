// File: core/ring/ring.go
// Package ring implements the fixed-capacity SPSC byte ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer is a bounded circular byte store with monotonic atomic write/read
// indices, padded to prevent false sharing. Exactly one goroutine may write
// and exactly one goroutine may read; within that discipline all operations
// are non-blocking and wait-free.

package ring

import (
	"errors"
	"sync/atomic"

	"github.com/momentics/hioload-fifo/api"
)

// Ensure compile-time interface compliance.
var _ api.ByteRing = (*Buffer)(nil)

var (
	// ErrFull is returned by Write when no free space exists.
	ErrFull = errors.New("ring buffer is full")

	// ErrEmpty is returned by Read when no buffered bytes exist.
	ErrEmpty = errors.New("ring buffer is empty")

	// ErrCapacity is returned by New for a non-positive capacity.
	ErrCapacity = errors.New("ring capacity must be positive")
)

// Buffer is a fixed-capacity SPSC byte ring.
//
// Indices grow monotonically and are reduced modulo capacity on access, so
// widx-ridx is always the exact occupied byte count and the full/empty states
// stay distinguishable without a slack slot.
type Buffer struct {
	widx atomic.Uint64
	_    [56]byte // padding: keep producer and consumer indices on separate cache lines
	ridx atomic.Uint64
	_    [56]byte

	capacity uint64
	data     []byte
}

// New allocates a ring of exactly the requested capacity.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	return &Buffer{
		capacity: uint64(capacity),
		data:     make([]byte, capacity),
	}, nil
}

// Write copies as many bytes of p as fit into free space and advances the
// write index. The index store publishes the copied bytes to the reader.
// Returns ErrFull only when zero bytes could be accepted.
func (b *Buffer) Write(p []byte) (int, error) {
	w := b.widx.Load()
	r := b.ridx.Load()

	free := b.capacity - (w - r)
	if free == 0 {
		return 0, ErrFull
	}

	n := uint64(len(p))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0, nil
	}

	off := w % b.capacity
	first := n
	if first > b.capacity-off {
		first = b.capacity - off
	}
	copy(b.data[off:off+first], p[:first])
	copy(b.data[:n-first], p[first:n])

	b.widx.Store(w + n)
	return int(n), nil
}

// Read drains up to len(p) bytes into p and advances the read index.
// Returns ErrEmpty only when zero bytes were buffered.
func (b *Buffer) Read(p []byte) (int, error) {
	r := b.ridx.Load()
	w := b.widx.Load()

	used := w - r
	if used == 0 {
		return 0, ErrEmpty
	}

	n := uint64(len(p))
	if n > used {
		n = used
	}
	if n == 0 {
		return 0, nil
	}

	off := r % b.capacity
	first := n
	if first > b.capacity-off {
		first = b.capacity - off
	}
	copy(p[:first], b.data[off:off+first])
	copy(p[first:n], b.data[:n-first])

	b.ridx.Store(r + n)
	return int(n), nil
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return int(b.widx.Load() - b.ridx.Load())
}

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int {
	return int(b.capacity)
}

// IsEmpty reports an instantaneous empty snapshot.
func (b *Buffer) IsEmpty() bool {
	return b.widx.Load() == b.ridx.Load()
}

// IsFull reports an instantaneous full snapshot.
func (b *Buffer) IsFull() bool {
	return b.widx.Load()-b.ridx.Load() == b.capacity
}
