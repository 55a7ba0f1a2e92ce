package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService    service.QuizService
	maxUploadBytes int64
}

func NewQuizController(quizService service.QuizService, maxUploadBytes int64) *QuizController {
	return &QuizController{quizService: quizService, maxUploadBytes: maxUploadBytes}
}

func (c *QuizController) RegisterRoutes(rg *gin.RouterGroup) {
	quizzes := rg.Group("/quizzes")
	quizzes.POST("", c.CreateQuiz)
	quizzes.POST("/submit", c.SubmitQuiz)
	quizzes.GET("/history", c.GetHistory)
	quizzes.GET("/submissions", c.GetSubmissions)
	quizzes.GET("/:quiz_id", c.GetQuiz)
}

// CreateQuiz godoc
// @Summary Generate a 20-question quiz
// @Description Builds a quiz from pasted text, an uploaded document (txt, pdf, csv, docx, pptx) or the caller's flashcards on a topic.
// @Tags Quizzes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.QuizCreateDTO true "Quiz source"
// @Param file formData file false "Document for source_type=file"
// @Success 201 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing topic/text/file, unsupported file or no flashcards"
// @Failure 500 {object} dto.ErrorResponse "Question generation failed"
// @Router /quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.QuizCreateDTO
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	file, err := readUpload(ctx, "file", c.maxUploadBytes)
	if err != nil {
		respondError(ctx, err, "Failed to read uploaded file")
		return
	}

	log.Info().Uint("userID", userID).Str("sourceType", req.SourceType).Str("topic", req.Topic).Msg("Received request to create quiz")
	quiz, err := c.quizService.CreateQuiz(ctx.Request.Context(), service.CreateQuizInput{
		UserID:     userID,
		Topic:      req.Topic,
		SourceType: req.SourceType,
		Text:       req.Text,
		File:       file,
	})
	if err != nil {
		respondError(ctx, err, "Failed to create quiz")
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// SubmitQuiz godoc
// @Summary Grade a quiz attempt
// @Description Answers are positional. Grading is exact and case-sensitive.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.QuizSubmitDTO true "Answers"
// @Success 200 {object} dto.QuizSubmitResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Answer count or question ids do not match the quiz"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.QuizSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	result, err := c.quizService.SubmitQuiz(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err, "Failed to submit quiz")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetHistory godoc
// @Summary Quizzes created by the caller, with their submissions
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizHistoryDTO
// @Router /quizzes/history [get]
func (c *QuizController) GetHistory(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	history, err := c.quizService.GetHistory(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve quiz history")
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// GetSubmissions godoc
// @Summary The caller's quiz attempts, newest first
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Router /quizzes/submissions [get]
func (c *QuizController) GetSubmissions(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	submissions, err := c.quizService.GetSubmissions(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve submissions")
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}

// GetQuiz godoc
// @Summary Get a quiz for taking
// @Description Correct answers are not included.
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := parseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	quiz, err := c.quizService.GetQuiz(ctx.Request.Context(), quizID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve quiz")
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}
