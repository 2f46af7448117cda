// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package reactor provides an in-process readiness multiplexer: caller-owned
// Poll instances, per-source readiness links (Registration/SetReadiness
// pairs), edge-, level- and oneshot-triggered delivery, and an optional
// eventfd bridge for embedding a Poll inside an OS epoll loop on Linux.
package reactor
