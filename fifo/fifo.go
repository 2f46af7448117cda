// File: fifo/fifo.go
// Package fifo implements the non-blocking SPSC byte channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A channel pairs one Producer with one Consumer over a shared fixed-capacity
// byte ring. Neither side ever blocks: operations that cannot make progress
// return a WouldBlock error, and the caller retries after its readiness link
// fires. Two cross-wired links carry the wakeups: the producer raises the
// consumer's link on empty-to-non-empty transitions, the consumer raises the
// producer's link on full-to-non-full transitions, and teardown of either
// half raises the peer unconditionally so a parked peer observes PeerClosed
// instead of starving.

package fifo

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-fifo/api"
	"github.com/momentics/hioload-fifo/control"
	"github.com/momentics/hioload-fifo/core/ring"
	"github.com/momentics/hioload-fifo/reactor"
)

// MaxCapacity bounds the ring size accepted by Create.
const MaxCapacity = 1 << 30

var (
	errRingFull     = fmt.Errorf("%w: ring buffer is full", api.ErrWouldBlock)
	errRingEmpty    = fmt.Errorf("%w: ring buffer is empty", api.ErrWouldBlock)
	errConsumerGone = fmt.Errorf("%w: consumer was closed", api.ErrPeerClosed)
	errProducerGone = fmt.Errorf("%w: producer was closed", api.ErrPeerClosed)
)

// shared is the state both halves reference: the ring, one liveness flag per
// half, and traffic counters. Each flag is written exactly once, by its own
// half's Close.
type shared struct {
	ring api.ByteRing

	producerGone atomic.Bool
	consumerGone atomic.Bool

	bytesWritten  atomic.Int64
	bytesRead     atomic.Int64
	readerWakeups atomic.Int64
	writerWakeups atomic.Int64
}

// Stats is a point-in-time snapshot of a channel's traffic counters.
type Stats struct {
	BytesWritten  int64
	BytesRead     int64
	ReaderWakeups int64
	WriterWakeups int64
	Buffered      int
	Capacity      int
}

func (s *shared) stats() Stats {
	return Stats{
		BytesWritten:  s.bytesWritten.Load(),
		BytesRead:     s.bytesRead.Load(),
		ReaderWakeups: s.readerWakeups.Load(),
		WriterWakeups: s.writerWakeups.Load(),
		Buffered:      s.ring.Len(),
		Capacity:      s.ring.Cap(),
	}
}

func (s *shared) attachProbe(dp *control.DebugProbes, name string) {
	dp.RegisterProbe(name, func() any { return s.stats() })
}

func (s *shared) publish(m *control.MetricsRegistry, prefix string) {
	st := s.stats()
	m.Set(prefix+".bytes_written", st.BytesWritten)
	m.Set(prefix+".bytes_read", st.BytesRead)
	m.Set(prefix+".reader_wakeups", st.ReaderWakeups)
	m.Set(prefix+".writer_wakeups", st.WriterWakeups)
	m.Set(prefix+".buffered", int64(st.Buffered))
	m.Set(prefix+".capacity", int64(st.Capacity))
}

// Create builds a channel of exactly the requested capacity and returns its
// two halves. Each half owns its own waiter registration and the raise
// handle of the peer's link; the halves are registered with caller-owned
// reactors independently.
func Create(capacity int) (*Producer, *Consumer, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, nil, api.NewError(api.ErrCodeInvalidCapacity, "fifo: capacity out of range").
			WithContext("capacity", capacity).
			WithContext("max", MaxCapacity)
	}
	rb, err := ring.New(capacity)
	if err != nil {
		return nil, nil, api.NewError(api.ErrCodeInvalidCapacity, err.Error()).
			WithContext("capacity", capacity)
	}

	// Link P wakes the producer, link C wakes the consumer. Each half keeps
	// its own waiter and the raise handle of the opposite link.
	regP, setP := reactor.NewLink()
	regC, setC := reactor.NewLink()

	sh := &shared{ring: rb}

	p := &Producer{reg: regP, raise: setC, sh: sh}
	c := &Consumer{reg: regC, raise: setP, sh: sh}
	return p, c, nil
}
