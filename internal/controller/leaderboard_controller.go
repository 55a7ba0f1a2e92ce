package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/service"
)

type LeaderboardController struct {
	leaderboardService service.LeaderboardService
}

func NewLeaderboardController(leaderboardService service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{leaderboardService: leaderboardService}
}

func (c *LeaderboardController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leaderboard", c.GetLeaderboard)
}

// GetLeaderboard godoc
// @Summary Top users by flashcards completed plus quiz points
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} dto.LeaderboardResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	board, err := c.leaderboardService.GetLeaderboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "Failed to retrieve leaderboard")
		return
	}
	ctx.JSON(http.StatusOK, board)
}
