// Package session tracks which external identities are currently logged in.
//
// State lives only in process memory: a restart logs everybody out.
package session

import "sync"

// Registry is a goroutine-safe set of logged-in external identities.
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	loggedIn map[int64]struct{}
}

func NewRegistry() *Registry {
	return &Registry{loggedIn: make(map[int64]struct{})}
}

// MarkLoggedIn records externalID as logged in. Repeated calls are no-ops.
func (r *Registry) MarkLoggedIn(externalID int64) {
	r.mu.Lock()
	r.loggedIn[externalID] = struct{}{}
	r.mu.Unlock()
}

// MarkLoggedOut removes externalID and reports whether it was logged in.
func (r *Registry) MarkLoggedOut(externalID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loggedIn[externalID]; !ok {
		return false
	}
	delete(r.loggedIn, externalID)
	return true
}

func (r *Registry) IsLoggedIn(externalID int64) bool {
	r.mu.RLock()
	_, ok := r.loggedIn[externalID]
	r.mu.RUnlock()
	return ok
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loggedIn)
}

// Clear drops every session.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.loggedIn = make(map[int64]struct{})
	r.mu.Unlock()
}
