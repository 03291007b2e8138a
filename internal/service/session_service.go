package service

import (
	"errors"
	"sync"
	"time"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
)

var (
	ErrSessionActive = errors.New("a session is already active")
	ErrNoSession     = errors.New("no active session")
)

// SessionService tracks the single active role for the process. There is no
// credential behind it; starting a session is the demo's whole login. The
// only legal path between producer and buyer is through End.
type SessionService struct {
	mu        sync.RWMutex
	active    entity.Role
	startedAt time.Time
	log       logger.Logger
}

func NewSessionService(log logger.Logger) *SessionService {
	return &SessionService{log: log}
}

func (s *SessionService) Start(role entity.Role) error {
	if _, err := entity.ParseRole(string(role)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != "" {
		s.log.Warnf("Session start as %s rejected, %s already active", role, s.active)
		return ErrSessionActive
	}
	s.active = role
	s.startedAt = time.Now().UTC()
	s.log.Infof("Session started as %s", role)
	return nil
}

// End clears the active role. Ending with no session is harmless.
func (s *SessionService) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != "" {
		s.log.Infof("Session ended for %s", s.active)
	}
	s.active = ""
	s.startedAt = time.Time{}
}

func (s *SessionService) Current() (entity.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

// StartedAt reports when the active session began.
func (s *SessionService) StartedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt, s.active != ""
}

// HasRole reports whether the given role is the active one.
func (s *SessionService) HasRole(role entity.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active == role
}
