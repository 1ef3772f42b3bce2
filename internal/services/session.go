package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/pandupatra/math-tug-of-war/internal/models"
	"github.com/pandupatra/math-tug-of-war/internal/problems"
	"github.com/pandupatra/math-tug-of-war/internal/store"

	"github.com/google/uuid"
)

// ResultRecorder consumes match-finished events. Implementations must be
// idempotent per result key: the resolver fires the event after the winning
// commit, so a redelivery could arrive twice.
type ResultRecorder interface {
	RecordMatchResult(ctx context.Context, resultKey, day, winnerName, loserName string) error
}

// How many times a writer re-reads and retries after losing a CAS race
// before giving up with ErrConflict. Contention windows are sub-millisecond,
// so exhausting this is rare.
const maxCommitAttempts = 3

type SessionService struct {
	store    store.Store
	recorder ResultRecorder
	stepSize int
}

func NewSessionService(st store.Store, recorder ResultRecorder, stepSize int) *SessionService {
	if stepSize <= 0 || stepSize > models.RopeMax {
		stepSize = 8
	}
	return &SessionService{store: st, recorder: recorder, stepSize: stepSize}
}

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

func sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 20 || !nameRe.MatchString(name) {
		return "", ErrInvalidName
	}
	return name, nil
}

// Create allocates a waiting session holding player one's seat. The first
// problem is generated up front (it stays hidden until the session goes
// active) so the join transition is a single write.
func (s *SessionService) Create(ctx context.Context, name string) (*models.GameSession, string, error) {
	name, err := sanitizeName(name)
	if err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	problem := problems.Generate()
	session := &models.GameSession{
		ID:             uuid.NewString(),
		Status:         models.SessionStatusWaiting,
		RopePosition:   models.RopeStart,
		StepSize:       s.stepSize,
		Player1Token:   token,
		Player1Name:    name,
		CurrentProblem: &problem,
		Version:        0,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, "", err
	}
	return session, token, nil
}

// Join claims the second seat and flips the session to active. The claim is
// a single atomic set-if-absent at the store, so a simultaneous joiner gets
// ErrAlreadyFull rather than silently stealing the seat.
func (s *SessionService) Join(ctx context.Context, sessionID, name string) (*models.GameSession, string, error) {
	name, err := sanitizeName(name)
	if err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	session, err := s.store.ClaimPlayerTwo(ctx, sessionID, token, name)
	if err != nil {
		return nil, "", mapStoreErr(err)
	}
	return session, token, nil
}

// GetForToken loads a session and derives the caller's role from token
// equality. Role is never persisted; recomputing it here keeps it impossible
// to desync from the tokens.
func (s *SessionService) GetForToken(ctx context.Context, sessionID, token string) (*models.GameSession, int, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}

	role := roleForToken(session, token)
	if role == 0 {
		return nil, 0, ErrUnauthorized
	}
	return session, role, nil
}

// Rematch reopens a finished session as a fresh round: rope back to center,
// no winner, new problem. Seats and names survive and the version counter
// keeps climbing so stale observers cannot be fooled.
func (s *SessionService) Rematch(ctx context.Context, sessionID, token string) (*models.GameSession, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		session, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		if roleForToken(session, token) == 0 {
			return nil, ErrUnauthorized
		}
		if session.Status != models.SessionStatusFinished {
			return nil, ErrNotFinished
		}

		next := session.Clone()
		problem := problems.Generate()
		next.Status = models.SessionStatusActive
		next.RopePosition = models.RopeStart
		next.Winner = nil
		next.FinishedAt = nil
		next.CurrentProblem = &problem
		next.Version = session.Version + 1

		err = s.store.Update(ctx, next, session.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, mapStoreErr(err)
		}
		return next, nil
	}
	return nil, ErrConflict
}

func roleForToken(session *models.GameSession, token string) int {
	if token == "" {
		return 0
	}
	if session.Player1Token == token {
		return 1
	}
	if session.Player2Token != nil && *session.Player2Token == token {
		return 2
	}
	return 0
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrSeatTaken):
		return ErrAlreadyFull
	case errors.Is(err, store.ErrVersionConflict):
		return ErrConflict
	}
	return err
}
