package store

import (
	"context"
	"errors"
	"time"

	"github.com/pandupatra/math-tug-of-war/internal/models"

	"gorm.io/gorm"
)

// Postgres persists sessions through gorm. Optimistic concurrency rides on
// conditional UPDATEs: the WHERE clause carries the version (or the empty
// seat) and RowsAffected tells us whether we won the race. No row locks are
// held across round trips.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Create(ctx context.Context, session *models.GameSession) error {
	return p.db.WithContext(ctx).Create(session).Error
}

func (p *Postgres) Get(ctx context.Context, id string) (*models.GameSession, error) {
	var session models.GameSession
	err := p.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *Postgres) Update(ctx context.Context, session *models.GameSession, expectedVersion int64) error {
	session.UpdatedAt = time.Now().UTC()

	res := p.db.WithContext(ctx).Model(&models.GameSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Select("status", "rope_position", "winner", "current_problem",
			"version", "finished_at", "updated_at").
		Updates(session)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Zero rows: either the session vanished or another writer got there
	// first. Distinguish for the caller.
	if _, err := p.Get(ctx, session.ID); err != nil {
		return err
	}
	return ErrVersionConflict
}

func (p *Postgres) ClaimPlayerTwo(ctx context.Context, id, token, name string) (*models.GameSession, error) {
	res := p.db.WithContext(ctx).Model(&models.GameSession{}).
		Where("id = ? AND player2_token IS NULL", id).
		Updates(map[string]interface{}{
			"player2_token": token,
			"player2_name":  name,
			"status":        models.SessionStatusActive,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := p.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrSeatTaken
	}

	return p.Get(ctx, id)
}
