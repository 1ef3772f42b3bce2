package handlers

import (
	"net/http"
	"time"

	"github.com/pandupatra/math-tug-of-war/internal/leaderboard"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	aggregator *leaderboard.Aggregator
}

func NewLeaderboardHandler(aggregator *leaderboard.Aggregator) *LeaderboardHandler {
	return &LeaderboardHandler{aggregator: aggregator}
}

// GetDaily godoc
// @Summary      Daily leaderboard
// @Description  Top players for a day, ordered by wins, then matches, then fewest losses
// @Tags         leaderboard
// @Produce      json
// @Param        day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetDaily(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid day, use YYYY-MM-DD"})
		return
	}

	entries, err := h.aggregator.GetDaily(c.Request.Context(), day, leaderboard.DefaultLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"day": day, "entries": entries})
}
