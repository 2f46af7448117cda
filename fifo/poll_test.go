// File: fifo/poll_test.go
// Author: momentics <momentics@gmail.com>
//
// Reactor-driven tests: both halves parked in caller-owned polls, woken by
// cross-wired readiness links.

package fifo

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-fifo/api"
	"github.com/momentics/hioload-fifo/reactor"
)

func mustWait(t *testing.T, p *reactor.Poll, timeout time.Duration) []api.Event {
	t.Helper()
	events := make([]api.Event, 8)
	n, err := p.Wait(events, timeout)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	return events[:n]
}

func TestPollWakesReader(t *testing.T) {
	p, c, _ := Create(16)
	poll := reactor.NewPoll()

	if err := c.RegisterTo(poll, api.Token(0), api.ReadyReadable, api.TriggerEdge); err != nil {
		t.Fatalf("register: %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Write([]byte("abc"))
		p.Write([]byte("def"))
	}()

	events := mustWait(t, poll, 10*time.Second)
	if len(events) != 1 {
		t.Fatalf("expected one coalesced event, got %d", len(events))
	}
	if events[0].Token != 0 || !events[0].Readiness.IsReadable() {
		t.Fatalf("unexpected event %+v", events[0])
	}

	// Both writes may land around the wakeup; drain with retries until the
	// full payload arrived. Seeing empty is safe: the next write raises.
	got := make([]byte, 0, 6)
	buf := make([]byte, 6)
	for len(got) < 6 {
		n, err := c.Read(buf)
		if err != nil {
			if errors.Is(err, api.ErrWouldBlock) {
				mustWait(t, poll, 10*time.Second)
				continue
			}
			t.Fatalf("read: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	require.Equal(t, []byte("abcdef"), got)
}

// TestPollWakesWriter covers writer-side readiness: the writer
// fills the ring, parks on its own link, and must be woken once the reader
// frees space.
func TestPollWakesWriter(t *testing.T) {
	const size = 16
	p, c, _ := Create(size)
	poll := reactor.NewPoll()

	if err := p.RegisterTo(poll, api.Token(0), api.ReadyWritable, api.TriggerEdge); err != nil {
		t.Fatalf("register: %v", err)
	}

	if n, _ := p.Write(make([]byte, size)); n != size {
		t.Fatal("fill short")
	}

	go func() {
		buf := make([]byte, 3)
		time.Sleep(10 * time.Millisecond)
		c.Read(buf)
		c.Read(buf)
	}()

	events := mustWait(t, poll, 10*time.Second)
	if len(events) != 1 || !events[0].Readiness.IsWritable() {
		t.Fatalf("unexpected events %+v", events)
	}

	// The reader freed 6 slots across two reads; the single coalesced
	// wakeup covers both.
	time.Sleep(20 * time.Millisecond)
	n, err := p.Write([]byte("abcdefghi"))
	if err != nil {
		t.Fatalf("write after wakeup: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6 free slots, wrote %d", n)
	}
}

func TestPollReaderObservesProducerClose(t *testing.T) {
	p, c, _ := Create(16)
	poll := reactor.NewPoll()

	if err := c.RegisterTo(poll, api.Token(0), api.ReadyReadable, api.TriggerEdge); err != nil {
		t.Fatalf("register: %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Close()
	}()

	buf := make([]byte, 3)
	for {
		events := mustWait(t, poll, 10*time.Second)
		if len(events) == 0 {
			continue
		}
		_, err := c.Read(buf)
		if errors.Is(err, api.ErrPeerClosed) {
			return
		}
		if !errors.Is(err, api.ErrWouldBlock) {
			t.Fatalf("unexpected read result: %v", err)
		}
	}
}

func TestPollWriterObservesConsumerClose(t *testing.T) {
	const size = 16
	p, c, _ := Create(size)
	poll := reactor.NewPoll()

	if err := p.RegisterTo(poll, api.Token(0), api.ReadyWritable, api.TriggerEdge); err != nil {
		t.Fatalf("register: %v", err)
	}
	p.Write(make([]byte, size))

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Close()
	}()

	for {
		events := mustWait(t, poll, 10*time.Second)
		if len(events) == 0 {
			continue
		}
		_, err := p.Write([]byte("def"))
		if errors.Is(err, api.ErrPeerClosed) {
			return
		}
		if !errors.Is(err, api.ErrWouldBlock) {
			t.Fatalf("unexpected write result: %v", err)
		}
	}
}

// TestPollProducerConsumer runs both halves in their own goroutines with
// oneshot edge registrations, reregistering for each cycle.
func TestPollProducerConsumer(t *testing.T) {
	const size = 16
	p, c, _ := Create(size)

	mode := api.TriggerEdge | api.TriggerOneShot

	consumerDone := make(chan int)
	go func() {
		poll := reactor.NewPoll()
		if err := c.RegisterTo(poll, api.Token(0), api.ReadyReadable, mode); err != nil {
			t.Errorf("consumer register: %v", err)
			consumerDone <- -1
			return
		}
		total := 0
		buf := make([]byte, size/2)
		for {
			events := mustWait(t, poll, 10*time.Second)
			for range events {
				for {
					n, err := c.Read(buf)
					if err != nil {
						if errors.Is(err, api.ErrPeerClosed) {
							consumerDone <- total
							return
						}
						break // WouldBlock: re-arm and wait
					}
					total += n
				}
			}
			if err := c.ReregisterTo(poll, api.Token(0), api.ReadyReadable, mode); err != nil {
				t.Errorf("consumer reregister: %v", err)
				consumerDone <- -1
				return
			}
		}
	}()

	poll := reactor.NewPoll()
	if err := p.RegisterTo(poll, api.Token(0), api.ReadyWritable, mode); err != nil {
		t.Fatalf("producer register: %v", err)
	}

	payload := make([]byte, size*3)
	remaining := payload
	for len(remaining) > 0 {
		n, err := p.Write(remaining)
		if err != nil {
			if !errors.Is(err, api.ErrWouldBlock) {
				t.Fatalf("write: %v", err)
			}
			if err := p.ReregisterTo(poll, api.Token(0), api.ReadyWritable, mode); err != nil {
				t.Fatalf("producer reregister: %v", err)
			}
			mustWait(t, poll, 10*time.Second)
			continue
		}
		remaining = remaining[n:]
	}
	p.Close()

	if got := <-consumerDone; got != len(payload) {
		t.Fatalf("consumer drained %d bytes, want %d", got, len(payload))
	}
}

// TestConcurrentRoundTrip streams a random payload through reactor-parked
// halves and requires exact reproduction.
func TestConcurrentRoundTrip(t *testing.T) {
	for _, capacity := range []int{1, 3, 16, 64} {
		p, c, err := Create(capacity)
		require.NoError(t, err)

		payload := make([]byte, 32*1024)
		rng := rand.New(rand.NewSource(int64(capacity)))
		rng.Read(payload)

		done := make(chan []byte, 1)
		go func() {
			poll := reactor.NewPoll()
			require.NoError(t, c.RegisterTo(poll, api.Token(1), api.ReadyReadable, api.TriggerEdge))
			got := make([]byte, 0, len(payload))
			buf := make([]byte, 13)
			for {
				n, err := c.Read(buf)
				if err != nil {
					if errors.Is(err, api.ErrPeerClosed) {
						done <- got
						return
					}
					mustWait(t, poll, 10*time.Second)
					continue
				}
				got = append(got, buf[:n]...)
			}
		}()

		poll := reactor.NewPoll()
		require.NoError(t, p.RegisterTo(poll, api.Token(2), api.ReadyWritable, api.TriggerEdge))
		remaining := payload
		for len(remaining) > 0 {
			n, err := p.Write(remaining)
			if err != nil {
				mustWait(t, poll, 10*time.Second)
				continue
			}
			remaining = remaining[n:]
		}
		p.Close()

		require.Equal(t, payload, <-done, "capacity %d", capacity)
	}
}
