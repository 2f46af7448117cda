// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the readiness event vocabulary shared between the reactor and the
// endpoints it multiplexes: tokens, readiness bits, trigger modes, events.

package api

// Token identifies a registered event source inside one reactor instance.
// It is chosen by the caller at registration time and echoed back verbatim
// in every Event delivered for that source.
type Token uint64

// Readiness is a bitmask of I/O conditions an event source can report.
// The same bits describe registration interest.
type Readiness uint8

const (
	// ReadyReadable indicates data is available to consume.
	ReadyReadable Readiness = 1 << iota

	// ReadyWritable indicates free space is available to fill.
	ReadyWritable
)

// IsReadable reports whether the readable bit is set.
func (r Readiness) IsReadable() bool { return r&ReadyReadable != 0 }

// IsWritable reports whether the writable bit is set.
func (r Readiness) IsWritable() bool { return r&ReadyWritable != 0 }

// String renders the readiness bits for diagnostics.
func (r Readiness) String() string {
	switch {
	case r.IsReadable() && r.IsWritable():
		return "readable|writable"
	case r.IsReadable():
		return "readable"
	case r.IsWritable():
		return "writable"
	default:
		return "none"
	}
}

// TriggerMode controls how readiness reports are delivered for a source.
type TriggerMode uint8

const (
	// TriggerLevel redelivers a report on every wait call while the
	// source's readiness stays non-empty.
	TriggerLevel TriggerMode = 0

	// TriggerEdge delivers one report per readiness transition; a new raise
	// is required before the next report.
	TriggerEdge TriggerMode = 1 << 0

	// TriggerOneShot disarms the source after one delivery until it is
	// reregistered. Combine with TriggerEdge or TriggerLevel.
	TriggerOneShot TriggerMode = 1 << 1
)

// IsEdge reports whether edge-triggered delivery is selected.
func (m TriggerMode) IsEdge() bool { return m&TriggerEdge != 0 }

// IsOneShot reports whether oneshot disarming is selected.
func (m TriggerMode) IsOneShot() bool { return m&TriggerOneShot != 0 }

// Event encapsulates one readiness notification returned by a reactor wait
// call: which source, and which of its interest bits are satisfied.
type Event struct {
	Token     Token
	Readiness Readiness
}
