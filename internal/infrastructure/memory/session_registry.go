// Package memory holds the in-process stores. Nothing here survives a
// reload; that is the point — every application generation starts from
// Anonymous with an empty registry.
package memory

import (
	"sync"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// SessionRegistry maps live session IDs to identities.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]domain.Identity
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]domain.Identity)}
}

func (r *SessionRegistry) Add(sessionID string, identity domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = identity
}

func (r *SessionRegistry) Get(sessionID string) (domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.sessions[sessionID]
	return identity, ok
}

// Remove deletes the session and reports whether it existed.
func (r *SessionRegistry) Remove(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

// Reset drops every session. Used when a generation is torn down.
func (r *SessionRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]domain.Identity)
}
