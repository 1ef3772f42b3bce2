package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pandupatra/math-tug-of-war/internal/models"

	"github.com/redis/go-redis/v9"
)

// Counters are only interesting for a couple of weeks; let redis reap them.
const keyTTL = 14 * 24 * time.Hour

const DefaultLimit = 20

// Aggregator keeps per-day win/loss counters in redis: a ZSET ranks players
// by wins and a hash per player holds the full counters. A SETNX marker per
// result key makes event delivery idempotent.
type Aggregator struct {
	client *redis.Client
}

func NewAggregator(client *redis.Client) *Aggregator {
	return &Aggregator{client: client}
}

func rankKey(day string) string {
	return "leaderboard:" + day + ":rank"
}

func playerKey(day, name string) string {
	return fmt.Sprintf("leaderboard:%s:player:%s", day, name)
}

// RecordMatchResult applies one finished match to the day's counters. A
// second delivery of the same result key is a no-op.
func (a *Aggregator) RecordMatchResult(ctx context.Context, resultKey, day, winnerName, loserName string) error {
	fresh, err := a.client.SetNX(ctx, "leaderboard:result:"+resultKey, 1, keyTTL).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	winKey := playerKey(day, winnerName)
	loseKey := playerKey(day, loserName)

	pipe := a.client.TxPipeline()
	pipe.HIncrBy(ctx, winKey, "wins", 1)
	pipe.HIncrBy(ctx, winKey, "matches", 1)
	pipe.HSet(ctx, winKey, "updated_at", now)
	pipe.HIncrBy(ctx, loseKey, "losses", 1)
	pipe.HIncrBy(ctx, loseKey, "matches", 1)
	pipe.HSet(ctx, loseKey, "updated_at", now)
	pipe.ZIncrBy(ctx, rankKey(day), 1, winnerName)
	// Losers still appear on the board, with zero wins.
	pipe.ZIncrBy(ctx, rankKey(day), 0, loserName)
	pipe.Expire(ctx, winKey, keyTTL)
	pipe.Expire(ctx, loseKey, keyTTL)
	pipe.Expire(ctx, rankKey(day), keyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// GetDaily returns the day's top entries ordered by wins desc, then matches
// desc, then losses asc.
func (a *Aggregator) GetDaily(ctx context.Context, day string, limit int64) ([]models.DailyLeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	names, err := a.client.ZRevRange(ctx, rankKey(day), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.DailyLeaderboardEntry, 0, len(names))
	for _, name := range names {
		fields, err := a.client.HGetAll(ctx, playerKey(day, name)).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}

		entry := models.DailyLeaderboardEntry{
			Day:        day,
			PlayerName: name,
			Wins:       atoiField(fields, "wins"),
			Losses:     atoiField(fields, "losses"),
			Matches:    atoiField(fields, "matches"),
		}
		if ts, err := time.Parse(time.RFC3339, fields["updated_at"]); err == nil {
			entry.UpdatedAt = ts
		}
		entries = append(entries, entry)
	}

	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []models.DailyLeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		if entries[i].Matches != entries[j].Matches {
			return entries[i].Matches > entries[j].Matches
		}
		return entries[i].Losses < entries[j].Losses
	})
}

func atoiField(fields map[string]string, key string) int {
	n, _ := strconv.Atoi(fields[key])
	return n
}
