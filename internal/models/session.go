package models

import "time"

// GameSession is the single mutable record a match lives in. All mutation
// goes through the store's version-checked update, so Version must be bumped
// by exactly 1 on every commit.
type GameSession struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	Status         string       `gorm:"size:20;not null;default:'waiting'" json:"status"`
	RopePosition   int          `gorm:"not null;default:50" json:"rope_position"`
	StepSize       int          `gorm:"not null;default:8" json:"step_size"`
	Winner         *int         `json:"winner"`
	Player1Token   string       `gorm:"size:36;not null;index" json:"-"`
	Player2Token   *string      `gorm:"size:36;index" json:"-"`
	Player1Name    string       `gorm:"size:20;not null" json:"player1_name"`
	Player2Name    *string      `gorm:"size:20" json:"player2_name"`
	CurrentProblem *MathProblem `gorm:"serializer:json" json:"current_problem,omitempty"`
	Version        int64        `gorm:"not null;default:0" json:"version"`
	FinishedAt     *time.Time   `json:"finished_at"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

const (
	SessionStatusWaiting  = "waiting"
	SessionStatusActive   = "active"
	SessionStatusFinished = "finished"
)

const (
	RopeMin   = 0
	RopeMax   = 100
	RopeStart = 50
)

// View returns a copy safe to serve to clients: the pre-generated problem
// stays hidden until the session is active.
func (s *GameSession) View() GameSession {
	v := *s
	if v.Status == SessionStatusWaiting {
		v.CurrentProblem = nil
	}
	return v
}

// Clone deep-copies the session so a resolver can mutate a candidate record
// without touching the copy it read.
func (s *GameSession) Clone() *GameSession {
	c := *s
	if s.Winner != nil {
		w := *s.Winner
		c.Winner = &w
	}
	if s.Player2Token != nil {
		t := *s.Player2Token
		c.Player2Token = &t
	}
	if s.Player2Name != nil {
		n := *s.Player2Name
		c.Player2Name = &n
	}
	if s.CurrentProblem != nil {
		p := *s.CurrentProblem
		c.CurrentProblem = &p
	}
	if s.FinishedAt != nil {
		f := *s.FinishedAt
		c.FinishedAt = &f
	}
	return &c
}
