// internal/session/store.go
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mockmate/backend/internal/domain/interview"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExists   = errors.New("session already exists")
)

// Store owns all live sessions for the lifetime of the process. It is the one
// piece of shared mutable state touched by concurrent request handlers, so
// every logical operation (look up, then mutate) runs under one lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*interview.Session),
	}
}

// Create registers a new open session and returns its id. When id is empty a
// UUID is generated; a supplied id that collides with an existing session is
// rejected with ErrExists.
func (s *Store) Create(role, level, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	} else if _, exists := s.sessions[id]; exists {
		return "", ErrExists
	}

	s.sessions[id] = &interview.Session{
		ID:    id,
		Role:  role,
		Level: level,
		State: interview.StateOpen,
	}
	return id, nil
}

// AppendAnswer stores one answer at the end of the session's answer list.
func (s *Store) AppendAnswer(id string, a interview.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Answers = append(sess.Answers, a)
	return nil
}

// Answers returns a copy of the session's answers in submission order.
func (s *Store) Answers(id string) ([]interview.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	answers := make([]interview.Answer, len(sess.Answers))
	copy(answers, sess.Answers)
	return answers, nil
}

// Get returns a snapshot of the session.
func (s *Store) Get(id string) (interview.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return interview.Session{}, ErrNotFound
	}
	snapshot := *sess
	snapshot.Answers = make([]interview.Answer, len(sess.Answers))
	copy(snapshot.Answers, sess.Answers)
	return snapshot, nil
}

// MarkEvaluated moves the session to its terminal state. Idempotent.
func (s *Store) MarkEvaluated(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.State = interview.StateEvaluated
	return nil
}
