// File: reactor/pollable.go
// Author: momentics <momentics@gmail.com>
//
// Contract for endpoints that expose a waitable registration.

package reactor

import "github.com/momentics/hioload-fifo/api"

// Pollable is implemented by endpoint handles that own a readiness link and
// delegate reactor registration to it.
type Pollable interface {
	// RegisterTo binds the endpoint's waiter to a poll under token.
	RegisterTo(p *Poll, token api.Token, interest api.Readiness, mode api.TriggerMode) error

	// ReregisterTo updates the binding and re-arms oneshot delivery.
	ReregisterTo(p *Poll, token api.Token, interest api.Readiness, mode api.TriggerMode) error

	// DeregisterFrom removes the binding.
	DeregisterFrom(p *Poll) error
}
