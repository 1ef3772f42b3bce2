package services

import (
	"context"
	"sync"
	"testing"

	"github.com/pandupatra/math-tug-of-war/internal/models"
	"github.com/pandupatra/math-tug-of-war/internal/store"

	"github.com/stretchr/testify/assert"
)

type recordedResult struct {
	ResultKey  string
	Day        string
	WinnerName string
	LoserName  string
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []recordedResult
}

func (f *fakeRecorder) RecordMatchResult(_ context.Context, resultKey, day, winnerName, loserName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, recordedResult{resultKey, day, winnerName, loserName})
	return nil
}

func (f *fakeRecorder) recorded() []recordedResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedResult, len(f.results))
	copy(out, f.results)
	return out
}

func newTestService(stepSize int) (*SessionService, *store.Memory, *fakeRecorder) {
	mem := store.NewMemory()
	rec := &fakeRecorder{}
	return NewSessionService(mem, rec, stepSize), mem, rec
}

func TestCreateSession(t *testing.T) {
	svc, _, _ := newTestService(8)

	session, token, err := svc.Create(context.Background(), "Alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.SessionStatusWaiting, session.Status)
	assert.Equal(t, models.RopeStart, session.RopePosition)
	assert.Equal(t, 8, session.StepSize)
	assert.Equal(t, int64(0), session.Version)
	assert.Nil(t, session.Winner)
	assert.Nil(t, session.Player2Token)
	assert.NotNil(t, session.CurrentProblem)
	assert.NotEmpty(t, session.CurrentProblem.Nonce)

	// The pre-generated problem stays hidden while waiting.
	assert.Nil(t, session.View().CurrentProblem)
}

func TestCreateSessionTrimsName(t *testing.T) {
	svc, _, _ := newTestService(8)

	session, _, err := svc.Create(context.Background(), "  Alice  ")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", session.Player1Name)
}

func TestCreateSessionInvalidName(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	for _, name := range []string{"", "A", "this name is way too long for us", "bad!name", "   "} {
		_, _, err := svc.Create(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestJoinSession(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	created, token1, err := svc.Create(ctx, "Alice")
	assert.NoError(t, err)

	joined, token2, err := svc.Join(ctx, created.ID, "Bob")
	assert.NoError(t, err)
	assert.NotEmpty(t, token2)
	assert.NotEqual(t, token1, token2)
	assert.Equal(t, models.SessionStatusActive, joined.Status)
	assert.Equal(t, int64(1), joined.Version)
	assert.Equal(t, "Bob", *joined.Player2Name)
	assert.NotNil(t, joined.View().CurrentProblem)
}

func TestJoinSessionAlreadyFull(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	created, _, _ := svc.Create(ctx, "Alice")
	_, _, err := svc.Join(ctx, created.ID, "Bob")
	assert.NoError(t, err)

	_, _, err = svc.Join(ctx, created.ID, "Carol")
	assert.ErrorIs(t, err, ErrAlreadyFull)
}

func TestJoinSessionNotFound(t *testing.T) {
	svc, _, _ := newTestService(8)
	_, _, err := svc.Join(context.Background(), "no-such-session", "Bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinSessionRace(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	created, _, _ := svc.Create(ctx, "Alice")

	const joiners = 8
	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Join(ctx, created.ID, "Joiner")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyFull)
		}
	}
	assert.Equal(t, 1, won)
}

func TestGetForToken(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	created, token1, _ := svc.Create(ctx, "Alice")
	_, token2, _ := svc.Join(ctx, created.ID, "Bob")

	_, role, err := svc.GetForToken(ctx, created.ID, token1)
	assert.NoError(t, err)
	assert.Equal(t, 1, role)

	_, role, err = svc.GetForToken(ctx, created.ID, token2)
	assert.NoError(t, err)
	assert.Equal(t, 2, role)

	_, _, err = svc.GetForToken(ctx, created.ID, "stranger-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.GetForToken(ctx, "no-such-session", token1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRematchRequiresFinished(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	created, token1, _ := svc.Create(ctx, "Alice")
	_, err := svc.Rematch(ctx, created.ID, token1)
	assert.ErrorIs(t, err, ErrNotFinished)

	_, _, err = svc.Join(ctx, created.ID, "Bob")
	assert.NoError(t, err)
	_, err = svc.Rematch(ctx, created.ID, token1)
	assert.ErrorIs(t, err, ErrNotFinished)
}

func TestRematchUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(8)
	ctx := context.Background()

	created, _, _ := svc.Create(ctx, "Alice")
	_, err := svc.Rematch(ctx, created.ID, "stranger-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRematchNotFound(t *testing.T) {
	svc, _, _ := newTestService(8)
	_, err := svc.Rematch(context.Background(), "no-such-session", "token")
	assert.ErrorIs(t, err, ErrNotFound)
}
