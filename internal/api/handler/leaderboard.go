package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memehustle/backend/internal/service"
)

// LeaderboardHandler serves the leaderboard projection.
type LeaderboardHandler struct {
	leaderboard *service.Leaderboard
}

// NewLeaderboardHandler creates a new leaderboard handler.
// Parameters:
//   - leaderboard: projection to serve reads from.
// Returns:
//   - *LeaderboardHandler: initialized handler.
func NewLeaderboardHandler(leaderboard *service.Leaderboard) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
	}
}

// GetLeaderboard handles GET /api/leaderboard. Reads come straight from the
// in-memory snapshot; the store is never consulted here.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.leaderboard.Get())
}
