// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poll is the in-process readiness multiplexer. Sources are readiness links
// registered under caller-chosen tokens; Wait blocks until at least one
// pending delivery exists and returns a batch of (token, readiness) pairs.
//
// Pending deliveries are kept in a FIFO so delivery order follows raise
// order. A link is queued at most once per raise edge: concurrent raises
// coalesce into a single delivery.

package reactor

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-fifo/api"
)

var (
	// ErrPollClosed reports use of a Poll after Close.
	ErrPollClosed = errors.New("reactor: poll is closed")

	// ErrDuplicateToken reports a Register with a token already in use.
	ErrDuplicateToken = errors.New("reactor: token already registered")
)

// Poll multiplexes readiness links for one waiting execution context.
type Poll struct {
	mu       sync.Mutex
	pending  *queue.Queue // of *Registration, FIFO delivery order
	tokens   map[api.Token]*Registration
	notifier *Notifier
	closed   bool

	wake chan struct{}
}

// NewPoll creates an empty Poll.
func NewPoll() *Poll {
	return &Poll{
		pending: queue.New(),
		tokens:  make(map[api.Token]*Registration),
		wake:    make(chan struct{}, 1),
	}
}

// Register binds a link to this poll under the given token. Readiness the
// link already carries is delivered on the next Wait, so a raise that
// happened before registration is not lost.
func (p *Poll) Register(reg *Registration, token api.Token, interest api.Readiness, mode api.TriggerMode) error {
	if interest == 0 {
		return fmt.Errorf("reactor: empty interest for token %d", token)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.closed {
		return ErrPollClosed
	}
	if reg.poll != nil {
		return ErrAlreadyRegistered
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPollClosed
	}
	if _, dup := p.tokens[token]; dup {
		p.mu.Unlock()
		return ErrDuplicateToken
	}
	p.tokens[token] = reg
	p.mu.Unlock()

	reg.poll = p
	reg.token = token
	reg.interest = interest
	reg.mode = mode
	reg.armed = true

	if reg.readiness&interest != 0 && !reg.queued {
		reg.queued = true
		p.enqueue(reg)
	}
	return nil
}

// Reregister updates token, interest and trigger mode for a bound link and
// re-arms it after a oneshot delivery. Retained readiness matching the new
// interest is redelivered.
func (p *Poll) Reregister(reg *Registration, token api.Token, interest api.Readiness, mode api.TriggerMode) error {
	if interest == 0 {
		return fmt.Errorf("reactor: empty interest for token %d", token)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.closed {
		return ErrPollClosed
	}
	if reg.poll != p {
		return ErrNotRegistered
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPollClosed
	}
	if other, dup := p.tokens[token]; dup && other != reg {
		p.mu.Unlock()
		return ErrDuplicateToken
	}
	delete(p.tokens, reg.token)
	p.tokens[token] = reg
	p.mu.Unlock()

	reg.token = token
	reg.interest = interest
	reg.mode = mode
	reg.armed = true

	if reg.readiness&interest != 0 && !reg.queued {
		reg.queued = true
		p.enqueue(reg)
	}
	return nil
}

// Deregister unbinds a link. Deliveries already queued for it are
// suppressed.
func (p *Poll) Deregister(reg *Registration) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.poll != p {
		return ErrNotRegistered
	}

	p.mu.Lock()
	delete(p.tokens, reg.token)
	p.mu.Unlock()

	reg.poll = nil
	reg.queued = false
	return nil
}

// Wait blocks until at least one delivery is pending, then fills events and
// returns the count. timeout < 0 blocks indefinitely; timeout == 0 polls
// once. A timeout expiring returns (0, nil).
func (p *Poll) Wait(events []api.Event, timeout time.Duration) (int, error) {
	if len(events) == 0 {
		return 0, fmt.Errorf("reactor: empty event buffer")
	}

	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		n, err := p.drain(events)
		if n > 0 || err != nil {
			return n, err
		}

		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return 0, nil
			}
			timer := time.NewTimer(remaining)
			select {
			case <-p.wake:
				timer.Stop()
			case <-timer.C:
			}
		} else {
			<-p.wake
		}
	}
}

// drain moves pending deliveries into events. Level-triggered links whose
// readiness is still non-empty stay queued for the next Wait; edge links are
// dequeued until the next raise; oneshot links are disarmed.
func (p *Poll) drain(events []api.Event) (int, error) {
	n := 0
	var requeue []*Registration

	// Pop until the queue is exhausted or the event buffer is full, never
	// stopping on stale entries: a live delivery behind them would
	// otherwise be stranded with no wake token left.
	for n < len(events) {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return 0, ErrPollClosed
		}
		if p.pending.Length() == 0 {
			p.mu.Unlock()
			break
		}
		reg := p.pending.Remove().(*Registration)
		p.mu.Unlock()

		reg.mu.Lock()
		if reg.poll != p {
			// Link was closed, deregistered, or moved to another poll
			// while queued here. Its queued flag belongs to the new
			// binding, if any; leave it alone.
			reg.mu.Unlock()
			continue
		}
		if !reg.queued {
			// Stale duplicate entry; the raise it belonged to was
			// already delivered.
			reg.mu.Unlock()
			continue
		}
		ready := reg.readiness & reg.interest
		if ready == 0 {
			reg.queued = false
			reg.mu.Unlock()
			continue
		}

		events[n] = api.Event{Token: reg.token, Readiness: ready}
		n++

		switch {
		case reg.mode.IsOneShot():
			reg.armed = false
			reg.queued = false
		case reg.mode.IsEdge():
			reg.queued = false
		default:
			// Level mode: redelivered on the next Wait, but at most
			// once per drain, so requeue after the loop.
			requeue = append(requeue, reg)
		}
		reg.mu.Unlock()
	}

	if len(requeue) > 0 {
		p.mu.Lock()
		if !p.closed {
			for _, reg := range requeue {
				p.pending.Add(reg)
			}
		}
		p.mu.Unlock()
	}
	return n, nil
}

// enqueue appends a delivery and wakes a blocked Wait. Callers must have
// set the link's queued flag while deciding to enqueue.
func (p *Poll) enqueue(reg *Registration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending.Add(reg)
	notifier := p.notifier
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}

	if notifier != nil {
		if err := notifier.Wake(); err != nil {
			log.Printf("[reactor] notifier wake failed: %v", err)
		}
	}
}

// SetNotifier attaches an OS-level wake bridge: every delivery enqueued into
// this poll also fires the notifier, so a thread blocked in an external
// epoll wait on the notifier's descriptor is woken to run Wait.
func (p *Poll) SetNotifier(n *Notifier) {
	p.mu.Lock()
	p.notifier = n
	p.mu.Unlock()
}

// Pending returns the number of queued deliveries, duplicates included.
func (p *Poll) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Length()
}

// Close shuts the poll down. Blocked and future Wait calls return
// ErrPollClosed. Registered links are left intact and may be bound to
// another poll after Deregister.
func (p *Poll) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}
