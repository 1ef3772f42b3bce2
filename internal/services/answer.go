package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pandupatra/math-tug-of-war/internal/models"
	"github.com/pandupatra/math-tug-of-war/internal/problems"
	"github.com/pandupatra/math-tug-of-war/internal/store"
)

// AnswerResult is the outcome of one submission. A rejection is not an
// error: the caller still gets the session it should render next.
type AnswerResult struct {
	Accepted bool                `json:"accepted"`
	Reason   string              `json:"reason,omitempty"`
	Session  *models.GameSession `json:"session"`
}

// SubmitAnswer resolves one answer submission against the session's current
// problem. The whole check-and-commit runs against a single read of the
// record and commits with a CAS on the version that was read; losing the
// race restarts from a fresh read, where the opponent's accepted answer has
// usually rotated the nonce and this submission falls out as stale. Together
// the nonce check and the CAS give at-most-one-accepted-answer-per-problem.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, token string, answer int, nonce string) (*AnswerResult, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		session, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return nil, mapStoreErr(err)
		}

		role := roleForToken(session, token)
		if role == 0 {
			return nil, ErrUnauthorized
		}

		if session.Status != models.SessionStatusActive {
			return &AnswerResult{Reason: ReasonSessionNotActive, Session: session}, nil
		}

		// The client answered a problem the server already replaced.
		if session.CurrentProblem == nil || session.CurrentProblem.Nonce != nonce {
			return &AnswerResult{Reason: ReasonStaleProblem, Session: session}, nil
		}

		expected, err := problems.Evaluate(session.CurrentProblem)
		if err != nil {
			return nil, err
		}
		// Wrong answers leave the nonce valid so the same player may retry.
		if answer != expected {
			return &AnswerResult{Reason: ReasonWrongAnswer, Session: session}, nil
		}

		next := session.Clone()
		pos := session.RopePosition
		if role == 1 {
			pos += session.StepSize
		} else {
			pos -= session.StepSize
		}
		if pos > models.RopeMax {
			pos = models.RopeMax
		}
		if pos < models.RopeMin {
			pos = models.RopeMin
		}
		next.RopePosition = pos

		problem := problems.Generate()
		next.CurrentProblem = &problem

		finished := pos == models.RopeMin || pos == models.RopeMax
		if finished {
			winner := 2
			if pos == models.RopeMax {
				winner = 1
			}
			now := time.Now().UTC()
			next.Status = models.SessionStatusFinished
			next.Winner = &winner
			next.FinishedAt = &now
		}

		next.Version = session.Version + 1
		err = s.store.Update(ctx, next, session.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, mapStoreErr(err)
		}

		if finished {
			s.recordResult(ctx, next)
		}
		return &AnswerResult{Accepted: true, Session: next}, nil
	}
	return nil, ErrConflict
}

// recordResult hands the finished match to the leaderboard aggregator.
// Delivery failures are logged, never surfaced: the match result is already
// committed and the recorder is idempotent per session id.
func (s *SessionService) recordResult(ctx context.Context, session *models.GameSession) {
	if s.recorder == nil || session.Winner == nil || session.Player2Name == nil {
		return
	}

	winnerName, loserName := session.Player1Name, *session.Player2Name
	if *session.Winner == 2 {
		winnerName, loserName = loserName, winnerName
	}

	// Keyed on the finishing commit so redeliveries dedupe but a rematch
	// round in the same session still counts.
	resultKey := fmt.Sprintf("%s:%d", session.ID, session.Version)
	day := session.FinishedAt.UTC().Format("2006-01-02")
	if err := s.recorder.RecordMatchResult(ctx, resultKey, day, winnerName, loserName); err != nil {
		log.Printf("leaderboard: failed to record result for session %s: %v", session.ID, err)
	}
}
