package telegram

import (
	"sync"

	"paw-kitchen/internal/energy"
)

// Session holds the per-chat planning state built up through commands. A
// session lives in memory; restarting the bot starts conversations fresh.
type Session struct {
	Profile    energy.AnimalProfile
	HasProfile bool
	Preset     string
	PantryIDs  []string
}

// SessionStore keeps chat sessions keyed by chat ID.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for a chat, creating one on first use.
func (s *SessionStore) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{}
		s.sessions[chatID] = sess
	}
	return sess
}

// Update applies fn to the chat's session under the store lock.
func (s *SessionStore) Update(chatID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{}
		s.sessions[chatID] = sess
	}
	fn(sess)
}

// Reset drops the chat's session.
func (s *SessionStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
