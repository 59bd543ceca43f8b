// Package panelsession tracks the inactivity timer of every open
// configuration panel, keyed by the panel's message id.
package panelsession

import (
	"sync"
	"time"

	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// DefaultTimeout is the inactivity window of a panel.
const DefaultTimeout = 5 * time.Minute

type entry struct {
	timer *time.Timer
}

// Registry owns one single-shot timer per panel. Timers are not persisted:
// a restart forgets every pending expiry.
type Registry struct {
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	stopped bool
}

// NewRegistry creates a registry; a non-positive timeout uses DefaultTimeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		timeout: timeout,
		entries: make(map[string]*entry),
	}
}

// Timeout returns the inactivity window.
func (r *Registry) Timeout() time.Duration {
	return r.timeout
}

// Touch (re)starts the timer of key. When it fires without another Touch or
// Cancel, the entry is discarded and onExpire runs on its own goroutine.
func (r *Registry) Touch(key string, onExpire func()) {
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if prev, ok := r.entries[key]; ok {
		prev.timer.Stop()
	}

	e := &entry{}
	e.timer = time.AfterFunc(r.timeout, func() {
		r.mu.Lock()
		// A Touch that raced with this firing replaced the entry; it wins.
		if r.entries[key] != e {
			r.mu.Unlock()
			return
		}
		delete(r.entries, key)
		r.mu.Unlock()

		log.DiscordLogger().Debug("Panel session expired", "key", key)
		if onExpire != nil {
			onExpire()
		}
	})
	r.entries[key] = e
}

// Cancel stops and forgets the timer of key, reporting whether one was pending.
func (r *Registry) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(r.entries, key)
	return true
}

// Active returns the number of pending timers.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// StopAll cancels every pending timer and ignores later Touch calls.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.entries {
		e.timer.Stop()
		delete(r.entries, key)
	}
	r.stopped = true
}
