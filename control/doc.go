// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer for hioload-fifo.
//
// Provides concurrent-safe observability primitives: a snapshot-based
// metrics registry channels publish their counters into, and named debug
// probes for on-demand state dumps.
package control
