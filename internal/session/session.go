// Package session implements the bearer-token login contract of §6: a
// session id is derived deterministically from credentials (no password
// store, no expiry — the process is ephemeral per §6 "Persisted state:
// none") and maps back to a ledger user id.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Store maps session ids to user ids. A session id is reproducible from the
// same credentials, so logging in twice with the same email/password yields
// the same session and the same underlying account.
type Store struct {
	mu   sync.RWMutex
	byID map[string]string // session id -> user id
}

// New builds an empty session store.
func New() *Store {
	return &Store{byID: make(map[string]string)}
}

// Login derives the session id as hex(SHA-256(email || password)) and
// records the mapping to a user id. The user id is the email: it is stable
// across logins and is what the ledger keys accounts by.
func (s *Store) Login(email, password string) (sessionID, userID string) {
	sum := sha256.Sum256([]byte(email + password))
	sessionID = hex.EncodeToString(sum[:])
	userID = email

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sessionID] = userID
	return sessionID, userID
}

// Resolve looks up the user id behind a bearer session id.
func (s *Store) Resolve(sessionID string) (userID string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok = s.byID[sessionID]
	return userID, ok
}
