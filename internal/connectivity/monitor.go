// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package connectivity tracks whether the remote service is reachable.
//
// [Monitor] holds the last known state and notifies subscribers once per
// transition. It starts online and has no failure mode of its own: when no
// signal source is running it simply stays online, so sync is never blocked
// by a broken detector. [Prober] is the signal source used by the client; it
// polls the remote ping endpoint and feeds the result into the Monitor.
package connectivity

import (
	"sync"

	"github.com/MKhiriev/go-field-sync/models"
)

// Monitor is safe for concurrent use.
type Monitor struct {
	// dispatch serialises transitions so subscribers observe them in order.
	dispatch sync.Mutex

	mu     sync.RWMutex
	state  models.Connectivity
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	fn func(models.Connectivity)
}

// NewMonitor returns a Monitor in the online state.
func NewMonitor() *Monitor {
	return &Monitor{state: models.Online}
}

// State returns the last known state. It never blocks on a transition in
// progress for longer than the state swap itself.
func (m *Monitor) State() models.Connectivity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn to be called with the new state on every
// transition. Callbacks run synchronously on the goroutine calling Set, in
// registration order, and must not call Set themselves. The returned function
// removes the subscription; calling it more than once is harmless.
func (m *Monitor) Subscribe(fn func(models.Connectivity)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Set records state. Subscribers are notified only when it differs from the
// current state; Set reports whether a transition happened. Values other
// than online and offline are ignored.
func (m *Monitor) Set(state models.Connectivity) bool {
	if state != models.Online && state != models.Offline {
		return false
	}

	m.dispatch.Lock()
	defer m.dispatch.Unlock()

	m.mu.Lock()
	if m.state == state {
		m.mu.Unlock()
		return false
	}
	m.state = state
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(state)
	}

	return true
}
