// File: api/ring.go
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity byte ring contract for cross-thread producer/consumer.

package api

// ByteRing is the contract the channel core requires from its backing ring
// buffer: a fixed-capacity byte store that never blocks and is safe for
// exactly one concurrent writer plus one concurrent reader.
type ByteRing interface {
	// Write copies bytes into free space. Returns the count accepted, which
	// may be short. Fails only when the ring is completely full.
	Write(p []byte) (int, error)

	// Read drains up to len(p) bytes. Returns the count moved, which may be
	// short. Fails only when the ring is completely empty.
	Read(p []byte) (int, error)

	// Len returns the number of buffered bytes.
	Len() int

	// Cap returns the fixed capacity.
	Cap() int

	// IsEmpty reports an instantaneous empty snapshot.
	IsEmpty() bool

	// IsFull reports an instantaneous full snapshot.
	IsFull() bool
}
