package repositories

import (
	"sync"
	"time"

	"redline/internal/models"
)

type SessionRepository interface {
	Get(id string) *models.Session
	Put(s *models.Session)
	Touch(id string, at time.Time) bool
	Delete(id string) bool
}

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]*models.Session)}
}

func (r *memorySessionRepository) Get(id string) *models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

func (r *memorySessionRepository) Put(s *models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
}

func (r *memorySessionRepository) Touch(id string, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.LastActivity = at
	return true
}

func (r *memorySessionRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}
