package services

import (
	"fmt"
	"time"

	"redline/internal/models"
	"redline/internal/repositories"
	"redline/internal/utils"
)

type SessionService interface {
	Create(email string) (*models.Session, error)
	Get(id string) *models.Session
	Touch(id string) bool
	Destroy(id string) bool
}

type sessionService struct {
	repo repositories.SessionRepository
}

func NewSessionService(repo repositories.SessionRepository) SessionService {
	return &sessionService{repo: repo}
}

func (s *sessionService) Create(email string) (*models.Session, error) {
	id, err := utils.NewRandomHex(32)
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	now := time.Now()
	sess := &models.Session{
		ID:           id,
		Email:        email,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.repo.Put(sess)
	return sess, nil
}

func (s *sessionService) Get(id string) *models.Session {
	return s.repo.Get(id)
}

func (s *sessionService) Touch(id string) bool {
	return s.repo.Touch(id, time.Now())
}

func (s *sessionService) Destroy(id string) bool {
	return s.repo.Delete(id)
}
