// File: reactor/registration.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness link: the waitable half (Registration) that a Poll multiplexes,
// and the raise-only half (SetReadiness) handed to whoever produces the
// condition. Raises coalesce while a delivery is pending, so observers get
// at least one wakeup per edge, not exactly one.

package reactor

import (
	"errors"
	"sync"

	"github.com/momentics/hioload-fifo/api"
)

var (
	// ErrAlreadyRegistered reports a second Register for the same link.
	ErrAlreadyRegistered = errors.New("reactor: registration already bound to a poll")

	// ErrNotRegistered reports Reregister/Deregister on an unbound link.
	ErrNotRegistered = errors.New("reactor: registration is not bound to this poll")
)

// Registration is the waitable half of a readiness link. It is bound to at
// most one Poll at a time via Poll.Register.
type Registration struct {
	mu sync.Mutex

	poll     *Poll
	token    api.Token
	interest api.Readiness
	mode     api.TriggerMode

	readiness api.Readiness
	queued    bool // a delivery for this link sits in the poll's pending queue
	armed     bool // false after a oneshot delivery until reregistered
	closed    bool
}

// SetReadiness is the raise-only half of a readiness link. Safe for
// concurrent use with the peer's operations and with the Poll.
type SetReadiness struct {
	reg *Registration
}

// NewLink creates a connected Registration/SetReadiness pair.
func NewLink() (*Registration, *SetReadiness) {
	reg := &Registration{}
	return reg, &SetReadiness{reg: reg}
}

// Set replaces the link's readiness. If the new value intersects the
// registered interest and no delivery is already pending, a delivery is
// queued and any blocked Wait is woken. Set on a closed or unregistered
// link records the value (or nothing, once closed) without error, so
// teardown paths can raise unconditionally.
func (s *SetReadiness) Set(r api.Readiness) error {
	reg := s.reg

	reg.mu.Lock()
	if reg.closed {
		reg.mu.Unlock()
		return nil
	}
	reg.readiness = r

	var p *Poll
	if reg.poll != nil && reg.armed && !reg.queued && r&reg.interest != 0 {
		reg.queued = true
		p = reg.poll
	}
	reg.mu.Unlock()

	if p != nil {
		p.enqueue(reg)
	}
	return nil
}

// Readiness returns the link's current readiness value.
func (s *SetReadiness) Readiness() api.Readiness {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.reg.readiness
}

// Close permanently disables the link and releases its token from the bound
// poll, so the token can be registered again. Subsequent Set calls are silent
// no-ops and pending deliveries are suppressed. Close is idempotent.
func (r *Registration) Close() {
	r.mu.Lock()
	if p := r.poll; p != nil {
		p.mu.Lock()
		delete(p.tokens, r.token)
		p.mu.Unlock()
	}
	r.closed = true
	r.poll = nil
	r.queued = false
	r.mu.Unlock()
}
