package models

import "time"

// DailyLeaderboardEntry is one row of the per-day win/loss aggregate.
type DailyLeaderboardEntry struct {
	Day        string    `json:"day"`
	PlayerName string    `json:"player_name"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	Matches    int       `json:"matches"`
	UpdatedAt  time.Time `json:"updated_at"`
}
