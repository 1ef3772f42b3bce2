package store

import (
	"context"
	"sync"
	"time"

	"github.com/pandupatra/math-tug-of-war/internal/models"
)

// Memory keeps sessions in a mutex-guarded map. It backs tests and the
// single-process dev driver; the CAS contract is identical to postgres.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*models.GameSession
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*models.GameSession)}
}

func (m *Memory) Create(_ context.Context, session *models.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*models.GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session.Clone(), nil
}

func (m *Memory) Update(_ context.Context, session *models.GameSession, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}

	session.UpdatedAt = time.Now().UTC()
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *Memory) ClaimPlayerTwo(_ context.Context, id, token, name string) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if stored.Player2Token != nil {
		return nil, ErrSeatTaken
	}

	stored.Player2Token = &token
	stored.Player2Name = &name
	stored.Status = models.SessionStatusActive
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	return stored.Clone(), nil
}
