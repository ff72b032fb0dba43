// Package session holds the current authentication state: the bearer token
// and the username it was issued to.
//
// The two fields are set and cleared together, never one without the other.
// [MemoryStore] keeps the session for the lifetime of the process;
// [SQLiteStore] persists it so the CLI stays signed in across invocations.
package session

import (
	"sync"
)

// Session is the current authentication state. The zero value means signed
// out.
type Session struct {
	Token    string
	Username string
}

// Store is the narrow contract the rest of the application programs against.
// Set and Clear are atomic: a reader never observes a token without its
// username or vice versa.
type Store interface {
	// Set establishes both fields of the session.
	Set(token, username string) error

	// Clear removes the session entirely.
	Clear() error

	// Current returns the stored session. ok is false when signed out.
	Current() (Session, bool)
}

// MemoryStore is a mutex-guarded in-process [Store].
type MemoryStore struct {
	mu   sync.RWMutex
	sess Session
	set  bool
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Set(token, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = Session{Token: token, Username: username}
	m.set = true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = Session{}
	m.set = false
	return nil
}

func (m *MemoryStore) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || Expired(m.sess.Token) {
		return Session{}, false
	}
	return m.sess, true
}
