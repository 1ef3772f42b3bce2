package store

import (
	"context"
	"sync"
	"testing"

	"github.com/pandupatra/math-tug-of-war/internal/models"
	"github.com/stretchr/testify/assert"
)

func newWaitingSession(id string) *models.GameSession {
	return &models.GameSession{
		ID:           id,
		Status:       models.SessionStatusWaiting,
		RopePosition: models.RopeStart,
		StepSize:     8,
		Player1Token: "p1-token",
		Player1Name:  "Alice",
		CurrentProblem: &models.MathProblem{
			OperandA: 3, OperandB: 4, Operator: "+", Text: "3 + 4", Nonce: "nonce-0",
		},
		Version: 0,
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateCAS(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.NoError(t, m.Create(ctx, newWaitingSession("s1")))

	s, err := m.Get(ctx, "s1")
	assert.NoError(t, err)

	s.RopePosition = 58
	s.Version = 1
	assert.NoError(t, m.Update(ctx, s, 0))

	// Same expected version again must lose.
	s.Version = 1
	err = m.Update(ctx, s, 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	stored, err := m.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, 58, stored.RopePosition)
}

func TestMemoryUpdateNotFound(t *testing.T) {
	m := NewMemory()
	err := m.Update(context.Background(), newWaitingSession("ghost"), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.NoError(t, m.Create(ctx, newWaitingSession("s1")))

	a, _ := m.Get(ctx, "s1")
	a.RopePosition = 0
	a.CurrentProblem.Nonce = "tampered"

	b, _ := m.Get(ctx, "s1")
	assert.Equal(t, models.RopeStart, b.RopePosition)
	assert.Equal(t, "nonce-0", b.CurrentProblem.Nonce)
}

func TestMemoryClaimPlayerTwo(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.NoError(t, m.Create(ctx, newWaitingSession("s1")))

	claimed, err := m.ClaimPlayerTwo(ctx, "s1", "p2-token", "Bob")
	assert.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, claimed.Status)
	assert.Equal(t, int64(1), claimed.Version)
	assert.Equal(t, "p2-token", *claimed.Player2Token)
	assert.Equal(t, "Bob", *claimed.Player2Name)

	_, err = m.ClaimPlayerTwo(ctx, "s1", "p3-token", "Carol")
	assert.ErrorIs(t, err, ErrSeatTaken)

	_, err = m.ClaimPlayerTwo(ctx, "nope", "p2-token", "Bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryClaimPlayerTwoRace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.NoError(t, m.Create(ctx, newWaitingSession("s1")))

	const joiners = 8
	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.ClaimPlayerTwo(ctx, "s1", "token", "Joiner")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrSeatTaken)
		}
	}
	assert.Equal(t, 1, won, "exactly one joiner may claim the seat")
}

func TestMemoryConcurrentUpdateSingleWinner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.NoError(t, m.Create(ctx, newWaitingSession("s1")))

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Get(ctx, "s1")
			if err != nil {
				errs[i] = err
				return
			}
			s.Version++
			errs[i] = m.Update(ctx, s, s.Version-1)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		}
	}
	assert.GreaterOrEqual(t, won, 1)

	stored, _ := m.Get(ctx, "s1")
	assert.Equal(t, int64(won), stored.Version, "version advances once per committed write")
}
