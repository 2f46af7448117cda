// File: fifo/producer.go
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
	_ io.Writer        = (*Producer)(nil)
	_ io.Closer        = (*Producer)(nil)
	_ reactor.Pollable = (*Producer)(nil)
)

// Producer is the write half of a channel. It must be used from at most one
// goroutine at a time; Close is the exception and is safe from anywhere.
type Producer struct {
	reg    *reactor.Registration // own waiter: woken when the ring gains free space
	raise  *reactor.SetReadiness // raises the consumer's link
	sh     *shared
	closed atomic.Bool
}

// Write moves as many bytes of p as fit into the ring and returns the count
// accepted. A short write is success, not an error. When the ring was
// observed empty immediately before the copy and at least one byte landed,
// the consumer's readiness link is raised after the copy completes: the
// atomic index publish inside the ring orders the bytes before the raise,
// so a woken reader always finds the data.
func (p *Producer) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, api.ErrClosed
	}
	if p.sh.consumerGone.Load() {
		return 0, errConsumerGone
	}
	if len(b) == 0 {
		return 0, nil
	}

	wasEmpty := p.sh.ring.IsEmpty()
	n, err := p.sh.ring.Write(b)
	if err != nil {
		return 0, errRingFull
	}

	p.sh.bytesWritten.Add(int64(n))

	// Raise on the empty-to-non-empty transition. The snapshot alone leaves
	// a window: the reader can drain to empty between the snapshot and the
	// index publish, park, and never be woken. The post-publish recheck
	// closes it: buffered <= n means the reader has consumed every byte
	// published before this write, so it may have observed empty. Spurious
	// raises coalesce and cost one redundant wakeup at most.
	if n > 0 && (wasEmpty || p.sh.ring.Len() <= n) {
		_ = p.raise.Set(api.ReadyReadable)
		p.sh.readerWakeups.Add(1)
	}
	return n, nil
}

// Close tears the write half down: marks the producer gone, raises the
// consumer's link unconditionally so a parked reader wakes and observes
// PeerClosed once the ring drains, and disables the producer's own waiter.
// Idempotent and safe to call concurrently with consumer operations.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.sh.producerGone.Store(true)
	_ = p.raise.Set(api.ReadyReadable | api.ReadyWritable)
	p.reg.Close()
	return nil
}

// Free returns the current free space in bytes.
func (p *Producer) Free() int {
	return p.sh.ring.Cap() - p.sh.ring.Len()
}

// Capacity returns the channel's fixed capacity.
func (p *Producer) Capacity() int {
	return p.sh.ring.Cap()
}

// Stats returns a snapshot of the channel's traffic counters.
func (p *Producer) Stats() Stats {
	return p.sh.stats()
}

// PublishStats writes the channel's counters into a metrics registry under
// the given key prefix.
func (p *Producer) PublishStats(m *control.MetricsRegistry, prefix string) {
	p.sh.publish(m, prefix)
}

// AttachDebugProbe registers a probe that reports the channel's Stats.
func (p *Producer) AttachDebugProbe(dp *control.DebugProbes, name string) {
	p.sh.attachProbe(dp, name)
}

// RegisterTo binds the producer's waiter to a poll. Writer-side interest is
// normally api.ReadyWritable.
func (p *Producer) RegisterTo(poll *reactor.Poll, token api.Token, interest api.Readiness, mode api.TriggerMode) error {
	return poll.Register(p.reg, token, interest, mode)
}

// ReregisterTo updates the producer's binding and re-arms oneshot delivery.
func (p *Producer) ReregisterTo(poll *reactor.Poll, token api.Token, interest api.Readiness, mode api.TriggerMode) error {
	return poll.Reregister(p.reg, token, interest, mode)
}

// DeregisterFrom removes the producer's binding.
func (p *Producer) DeregisterFrom(poll *reactor.Poll) error {
	return poll.Deregister(p.reg)
}
