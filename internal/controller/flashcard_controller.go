package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/lshigami/StudyBuddy/internal/service"
)

type FlashcardController struct {
	flashcardService service.FlashcardService
	images           ImageStore
	maxUploadBytes   int64
}

func NewFlashcardController(flashcardService service.FlashcardService, images ImageStore) *FlashcardController {
	return &FlashcardController{flashcardService: flashcardService, images: images, maxUploadBytes: images.MaxBytes}
}

func (c *FlashcardController) RegisterRoutes(rg *gin.RouterGroup) {
	flashcards := rg.Group("/flashcards")
	flashcards.POST("", c.CreateFlashcards)
	flashcards.GET("", c.ListFlashcards)
	flashcards.GET("/grouped", c.GroupedAll)
	flashcards.GET("/grouped/mine", c.GroupedMine)
	flashcards.GET("/topic/:topic", c.ByTopic)
	flashcards.PUT("/:flashcard_id", c.UpdateFlashcard)
	flashcards.DELETE("/:flashcard_id", c.DeleteFlashcard)
	flashcards.POST("/:flashcard_id/review", c.ReviewFlashcard)
}

// CreateFlashcards godoc
// @Summary Create flashcards
// @Description Manual list (JSON), AI suggestions from text (not saved), or AI cards from an uploaded PDF (saved).
// @Tags Flashcards
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param flashcards body dto.FlashcardCreateDTO true "Flashcard source"
// @Param file formData file false "PDF study material"
// @Success 201 {object} dto.FlashcardCreateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "No usable input or too few AI cards"
// @Router /flashcards [post]
func (c *FlashcardController) CreateFlashcards(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.FlashcardCreateDTO
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	pdf, err := readUpload(ctx, "file", c.maxUploadBytes)
	if err != nil {
		respondError(ctx, err, "Failed to read uploaded file")
		return
	}
	resp, err := c.flashcardService.Create(ctx.Request.Context(), userID, req, pdf)
	if err != nil {
		respondError(ctx, err, "Failed to create flashcards")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListFlashcards godoc
// @Summary List flashcards
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param topic query string false "Case-insensitive topic filter"
// @Param user_id query int false "Owner filter"
// @Success 200 {array} dto.FlashcardResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No flashcards found"
// @Router /flashcards [get]
func (c *FlashcardController) ListFlashcards(ctx *gin.Context) {
	var query dto.FlashcardQueryDTO
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid query parameters", Details: []string{err.Error()}})
		return
	}
	filter := repository.FlashcardFilter{Topic: query.Topic, UserID: query.UserID}
	cards, err := c.flashcardService.List(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve flashcards")
		return
	}
	ctx.JSON(http.StatusOK, cards)
}

// GroupedAll godoc
// @Summary All users' flashcards grouped by topic
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]dto.FlashcardResponseDTO
// @Router /flashcards/grouped [get]
func (c *FlashcardController) GroupedAll(ctx *gin.Context) {
	grouped, err := c.flashcardService.Grouped(ctx.Request.Context(), nil)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve flashcards")
		return
	}
	ctx.JSON(http.StatusOK, grouped)
}

// GroupedMine godoc
// @Summary The caller's flashcards grouped by topic
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]dto.FlashcardResponseDTO
// @Router /flashcards/grouped/mine [get]
func (c *FlashcardController) GroupedMine(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	grouped, err := c.flashcardService.Grouped(ctx.Request.Context(), &userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve flashcards")
		return
	}
	ctx.JSON(http.StatusOK, grouped)
}

// ByTopic godoc
// @Summary The caller's flashcards for a topic
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param topic path string true "Topic"
// @Success 200 {array} dto.FlashcardResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No flashcards found for this topic"
// @Router /flashcards/topic/{topic} [get]
func (c *FlashcardController) ByTopic(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	cards, err := c.flashcardService.ByTopic(ctx.Request.Context(), userID, ctx.Param("topic"))
	if err != nil {
		respondError(ctx, err, "Failed to retrieve flashcards")
		return
	}
	ctx.JSON(http.StatusOK, cards)
}

// UpdateFlashcard godoc
// @Summary Update a flashcard
// @Description Owner only. An image may be uploaded as multipart field "file".
// @Tags Flashcards
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param flashcard_id path int true "Flashcard ID"
// @Param flashcard body dto.FlashcardUpdateDTO true "Fields to change"
// @Success 200 {object} dto.FlashcardResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Flashcard not found"
// @Router /flashcards/{flashcard_id} [put]
func (c *FlashcardController) UpdateFlashcard(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "flashcard_id")
	if !ok {
		return
	}
	var req dto.FlashcardUpdateDTO
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	image, err := c.images.Save(ctx, "file")
	if err != nil {
		respondError(ctx, err, "Failed to store image")
		return
	}
	if image != nil {
		req.Image = image
	}
	card, err := c.flashcardService.Update(ctx.Request.Context(), userID, id, req)
	if err != nil {
		respondError(ctx, err, "Failed to update flashcard")
		return
	}
	ctx.JSON(http.StatusOK, card)
}

// DeleteFlashcard godoc
// @Summary Delete a flashcard
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param flashcard_id path int true "Flashcard ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Flashcard not found"
// @Router /flashcards/{flashcard_id} [delete]
func (c *FlashcardController) DeleteFlashcard(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "flashcard_id")
	if !ok {
		return
	}
	if err := c.flashcardService.Delete(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err, "Failed to delete flashcard")
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Flashcard deleted successfully"})
}

// ReviewFlashcard godoc
// @Summary Mark a flashcard reviewed
// @Description The first review increments flashcards completed.
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param flashcard_id path int true "Flashcard ID"
// @Success 200 {object} dto.FlashcardResponseDTO
// @Router /flashcards/{flashcard_id}/review [post]
func (c *FlashcardController) ReviewFlashcard(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "flashcard_id")
	if !ok {
		return
	}
	card, err := c.flashcardService.Review(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err, "Failed to review flashcard")
		return
	}
	ctx.JSON(http.StatusOK, card)
}
