package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/service"
)

type ProgressController struct {
	progressService service.ProgressService
}

func NewProgressController(progressService service.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

func (c *ProgressController) RegisterRoutes(rg *gin.RouterGroup) {
	progress := rg.Group("/progress")
	progress.GET("", c.GetProgress)
	progress.POST("/flashcard", c.RecordFlashcard)
	progress.POST("/quiz", c.RecordQuiz)
}

// GetProgress godoc
// @Summary The caller's study progress
// @Description Creates an empty record on first access.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProgressResponseDTO
// @Router /progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	c.respondProgress(ctx, userID)
}

// RecordFlashcard godoc
// @Summary Count one completed flashcard
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProgressResponseDTO
// @Router /progress/flashcard [post]
func (c *ProgressController) RecordFlashcard(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	if err := c.progressService.RecordFlashcards(ctx.Request.Context(), userID, 1, ""); err != nil {
		respondError(ctx, err, "Failed to update progress")
		return
	}
	c.respondProgress(ctx, userID)
}

// RecordQuiz godoc
// @Summary Count one taken quiz
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProgressResponseDTO
// @Router /progress/quiz [post]
func (c *ProgressController) RecordQuiz(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	if err := c.progressService.RecordQuiz(ctx.Request.Context(), userID, 0, 0, ""); err != nil {
		respondError(ctx, err, "Failed to update progress")
		return
	}
	c.respondProgress(ctx, userID)
}

func (c *ProgressController) respondProgress(ctx *gin.Context, userID uint) {
	progress, err := c.progressService.GetProgress(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve progress")
		return
	}
	ctx.JSON(http.StatusOK, progress)
}
