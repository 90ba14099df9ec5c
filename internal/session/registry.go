package session

import "sync"

// Registry is the daemon's in-memory session table, guarded by a single
// RWMutex. Handlers run whole operations inside Update or View so that
// validate, mutate, and persist happen under one lock acquisition.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Replace swaps in a recovered session table. Called once, before the
// socket starts accepting.
func (r *Registry) Replace(sessions map[string]*Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sessions == nil {
		sessions = make(map[string]*Session)
	}
	r.sessions = sessions
}

// Update runs fn with the writer lock held. fn may mutate the map and the
// sessions in it; any error is passed through.
func (r *Registry) Update(fn func(sessions map[string]*Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.sessions)
}

// View runs fn with the reader lock held. fn must not mutate the map or
// the sessions.
func (r *Registry) View(fn func(sessions map[string]*Session) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.sessions)
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
