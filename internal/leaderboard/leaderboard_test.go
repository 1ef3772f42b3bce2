package leaderboard

import (
	"testing"

	"github.com/pandupatra/math-tug-of-war/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSortEntries(t *testing.T) {
	entries := []models.DailyLeaderboardEntry{
		{PlayerName: "few-matches", Wins: 3, Matches: 3, Losses: 0},
		{PlayerName: "grinder", Wins: 3, Matches: 6, Losses: 3},
		{PlayerName: "champ", Wins: 5, Matches: 5, Losses: 0},
		{PlayerName: "unlucky", Wins: 0, Matches: 4, Losses: 4},
		{PlayerName: "clean", Wins: 3, Matches: 6, Losses: 2},
	}

	sortEntries(entries)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.PlayerName
	}
	// Wins desc, then matches desc, then losses asc.
	assert.Equal(t, []string{"champ", "clean", "grinder", "few-matches", "unlucky"}, names)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "leaderboard:2026-08-27:rank", rankKey("2026-08-27"))
	assert.Equal(t, "leaderboard:2026-08-27:player:Alice", playerKey("2026-08-27", "Alice"))
}
