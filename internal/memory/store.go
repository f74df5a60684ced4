package memory

import (
	"sync"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// MaxTurns is the hard cap on turns retained per session. Older turns are
// evicted first once the cap is exceeded.
const MaxTurns = 20

// ContextTurns is how many trailing turns prompt-building reads.
const ContextTurns = 6

// Store keeps a bounded, ordered turn log per session key. Sessions are
// created lazily on first append and live for the process lifetime; memory
// is advisory context, not a system of record, and is not persisted.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]models.Turn
}

// NewStore creates an empty conversation memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]models.Turn),
	}
}

// Append adds a single turn to the session, evicting the oldest turns past
// the cap.
func (s *Store) Append(sessionKey string, turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(sessionKey, turn)
}

// AppendExchange records a user turn followed by the assistant turn under a
// single lock acquisition, so concurrent requests on the same session key
// cannot interleave between the two.
func (s *Store) AppendExchange(sessionKey string, userTurn, assistantTurn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(sessionKey, userTurn)
	s.appendLocked(sessionKey, assistantTurn)
}

func (s *Store) appendLocked(sessionKey string, turn models.Turn) {
	turns := append(s.sessions[sessionKey], turn)
	if len(turns) > MaxTurns {
		turns = turns[len(turns)-MaxTurns:]
	}
	s.sessions[sessionKey] = turns
}

// Recent returns a copy of the last n turns for the session, in insertion
// order. Unknown keys yield an empty slice.
func (s *Store) Recent(sessionKey string, n int) []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionKey]
	if n > len(turns) {
		n = len(turns)
	}
	if n <= 0 {
		return nil
	}
	out := make([]models.Turn, n)
	copy(out, turns[len(turns)-n:])
	return out
}

// Reset clears the session's turns. Resetting an unknown key is not an error.
func (s *Store) Reset(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionKey]; ok {
		s.sessions[sessionKey] = nil
	}
}

// Len reports the current number of turns stored for the session.
func (s *Store) Len(sessionKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[sessionKey])
}
