// File: fifo/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fifo

import (
	"io"
	"sync/atomic"

	"github.com/momentics/hioload-fifo/api"
	"github.com/momentics/hioload-fifo/control"
	"github.com/momentics/hioload-fifo/reactor"
)

// Ensure compile-time interface compliance.
var (
	_ io.Reader        = (*Consumer)(nil)
	_ io.Closer        = (*Consumer)(nil)
	_ reactor.Pollable = (*Consumer)(nil)
)

// Consumer is the read half of a channel. It must be used from at most one
// goroutine at a time; Close is the exception and is safe from anywhere.
type Consumer struct {
	reg    *reactor.Registration // own waiter: woken when the ring gains data
	raise  *reactor.SetReadiness // raises the producer's link
	sh     *shared
	closed atomic.Bool
}

// Read drains up to len(b) bytes from the ring and returns the count moved.
// A short read is success. An empty ring reports PeerClosed only when the
// producer is gone, otherwise WouldBlock: buffered bytes written before the
// peer closed remain drainable. When the ring was observed full immediately
// before the drain and at least one byte moved, the producer's readiness
// link is raised after the drain completes.
func (c *Consumer) Read(b []byte) (int, error) {
	if c.closed.Load() {
		return 0, api.ErrClosed
	}

	wasFull := c.sh.ring.IsFull()
	n, err := c.sh.ring.Read(b)
	if err != nil {
		if c.sh.producerGone.Load() {
			return 0, errProducerGone
		}
		return 0, errRingEmpty
	}

	c.sh.bytesRead.Add(int64(n))

	// Raise on the full-to-non-full transition, with the mirror of the
	// writer's post-publish recheck: free space <= n means the writer may
	// have observed a full ring after this drain began and parked.
	if n > 0 && (wasFull || c.sh.ring.Cap()-c.sh.ring.Len() <= n) {
		_ = c.raise.Set(api.ReadyWritable)
		c.sh.writerWakeups.Add(1)
	}
	return n, nil
}

// Close tears the read half down: marks the consumer gone, raises the
// producer's link unconditionally so a parked writer wakes and observes
// PeerClosed, and disables the consumer's own waiter. Idempotent and safe
// to call concurrently with producer operations.
func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.sh.consumerGone.Store(true)
	_ = c.raise.Set(api.ReadyReadable | api.ReadyWritable)
	c.reg.Close()
	return nil
}

// Buffered returns the number of bytes currently waiting in the ring.
func (c *Consumer) Buffered() int {
	return c.sh.ring.Len()
}

// Capacity returns the channel's fixed capacity.
func (c *Consumer) Capacity() int {
	return c.sh.ring.Cap()
}

// Stats returns a snapshot of the channel's traffic counters.
func (c *Consumer) Stats() Stats {
	return c.sh.stats()
}

// PublishStats writes the channel's counters into a metrics registry under
// the given key prefix.
func (c *Consumer) PublishStats(m *control.MetricsRegistry, prefix string) {
	c.sh.publish(m, prefix)
}

// AttachDebugProbe registers a probe that reports the channel's Stats.
func (c *Consumer) AttachDebugProbe(dp *control.DebugProbes, name string) {
	c.sh.attachProbe(dp, name)
}

// RegisterTo binds the consumer's waiter to a poll. Reader-side interest is
// normally api.ReadyReadable.
func (c *Consumer) RegisterTo(poll *reactor.Poll, token api.Token, interest api.Readiness, mode api.TriggerMode) error {
	return poll.Register(c.reg, token, interest, mode)
}

// ReregisterTo updates the consumer's binding and re-arms oneshot delivery.
func (c *Consumer) ReregisterTo(poll *reactor.Poll, token api.Token, interest api.Readiness, mode api.TriggerMode) error {
	return poll.Reregister(c.reg, token, interest, mode)
}

// DeregisterFrom removes the consumer's binding.
func (c *Consumer) DeregisterFrom(poll *reactor.Poll) error {
	return poll.Deregister(c.reg)
}
