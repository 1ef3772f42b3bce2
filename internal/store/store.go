package store

import (
	"context"
	"errors"

	"github.com/pandupatra/math-tug-of-war/internal/models"
)

var (
	// ErrNotFound means no session exists under the given id.
	ErrNotFound = errors.New("session not found")
	// ErrVersionConflict means a concurrent writer committed first; the
	// caller must re-read and retry.
	ErrVersionConflict = errors.New("session version conflict")
	// ErrSeatTaken means player two's seat was already claimed.
	ErrSeatTaken = errors.New("player two seat already taken")
)

// Store is keyed session storage with compare-and-swap update semantics.
// Update commits the given record only if the stored version still equals
// expectedVersion; the record's own Version must already be bumped by the
// caller. ClaimPlayerTwo is an atomic set-if-absent on the second seat so
// two simultaneous joiners can never both succeed.
type Store interface {
	Create(ctx context.Context, session *models.GameSession) error
	Get(ctx context.Context, id string) (*models.GameSession, error)
	Update(ctx context.Context, session *models.GameSession, expectedVersion int64) error
	ClaimPlayerTwo(ctx context.Context, id, token, name string) (*models.GameSession, error)
}
