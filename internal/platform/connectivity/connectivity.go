// Package connectivity tracks whether the process currently considers
// itself online. The flag is flipped by the admin API (or by tests) and
// consulted by the quote cache engine before any remote fetch.
package connectivity

import "sync/atomic"

// Flag is a process-wide online/offline switch. Safe for concurrent
// use.
type Flag struct {
	online atomic.Bool
}

// New creates a Flag with the given initial state.
func New(online bool) *Flag {
	f := &Flag{}
	f.online.Store(online)

	return f
}

// Online reports whether the process is currently online.
func (f *Flag) Online() bool {
	return f.online.Load()
}

// SetOnline updates the flag.
func (f *Flag) SetOnline(v bool) {
	f.online.Store(v)
}
