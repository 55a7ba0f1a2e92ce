package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/middleware"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/lshigami/StudyBuddy/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuizService struct {
	created   service.CreateQuizInput
	createErr error
	submitErr error
	getErr    error
}

func (f *fakeQuizService) CreateQuiz(_ context.Context, in service.CreateQuizInput) (*dto.QuizResponseDTO, error) {
	f.created = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.QuizResponseDTO{ID: 7, Topic: in.Topic, SourceType: in.SourceType, CreatedBy: in.UserID}, nil
}

func (f *fakeQuizService) SubmitQuiz(_ context.Context, userID uint, req dto.QuizSubmitDTO) (*dto.QuizSubmitResponseDTO, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &dto.QuizSubmitResponseDTO{SubmissionID: 1, QuizID: req.QuizID, Score: len(req.Answers), TimeTaken: req.TimeTaken}, nil
}

func (f *fakeQuizService) GetHistory(context.Context, uint) ([]dto.QuizHistoryDTO, error) {
	return []dto.QuizHistoryDTO{}, nil
}

func (f *fakeQuizService) GetSubmissions(_ context.Context, userID uint) ([]dto.SubmissionSummaryDTO, error) {
	return []dto.SubmissionSummaryDTO{{ID: 3, QuizID: 7, Score: 12, TotalQuestions: 20}}, nil
}

func (f *fakeQuizService) GetQuiz(_ context.Context, quizID uint) (*dto.QuizResponseDTO, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &dto.QuizResponseDTO{ID: quizID}, nil
}

type fakeTaskService struct {
	deleteErr error
	created   dto.TaskCreateDTO
}

func (f *fakeTaskService) Create(_ context.Context, _ uint, req dto.TaskCreateDTO) (*dto.TaskResponseDTO, error) {
	f.created = req
	return &dto.TaskResponseDTO{ID: 1, Title: req.Title, Status: req.Status}, nil
}

func (f *fakeTaskService) List(context.Context, uint) ([]dto.TaskResponseDTO, error) {
	return []dto.TaskResponseDTO{}, nil
}

func (f *fakeTaskService) Update(_ context.Context, _ uint, id uint, _ dto.TaskUpdateDTO) (*dto.TaskResponseDTO, error) {
	return &dto.TaskResponseDTO{ID: id}, nil
}

func (f *fakeTaskService) Delete(context.Context, uint, uint) error {
	return f.deleteErr
}

type fakeFlashcardService struct {
	filter    repository.FlashcardFilter
	updateErr error
}

func (f *fakeFlashcardService) Create(_ context.Context, userID uint, req dto.FlashcardCreateDTO, pdf []byte) (*dto.FlashcardCreateResponseDTO, error) {
	return &dto.FlashcardCreateResponseDTO{Message: fmt.Sprintf("%s:%d", req.Topic, len(pdf))}, nil
}

func (f *fakeFlashcardService) List(_ context.Context, filter repository.FlashcardFilter) ([]dto.FlashcardResponseDTO, error) {
	f.filter = filter
	return []dto.FlashcardResponseDTO{}, nil
}

func (f *fakeFlashcardService) Grouped(context.Context, *uint) (map[string][]dto.FlashcardResponseDTO, error) {
	return map[string][]dto.FlashcardResponseDTO{}, nil
}

func (f *fakeFlashcardService) ByTopic(context.Context, uint, string) ([]dto.FlashcardResponseDTO, error) {
	return nil, service.ErrNotFound
}

func (f *fakeFlashcardService) Update(_ context.Context, _ uint, id uint, req dto.FlashcardUpdateDTO) (*dto.FlashcardResponseDTO, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dto.FlashcardResponseDTO{ID: id, Question: req.Question}, nil
}

func (f *fakeFlashcardService) Delete(context.Context, uint, uint) error { return nil }

func (f *fakeFlashcardService) Review(_ context.Context, _ uint, id uint) (*dto.FlashcardResponseDTO, error) {
	return &dto.FlashcardResponseDTO{ID: id, Reviewed: true}, nil
}

// newRouter authenticates every request as user 42.
func newRouter(t *testing.T, mount func(rg *gin.RouterGroup)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, dto.RegisterValidators())
	r := gin.New()
	api := r.Group("/api/v1", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserID, uint(42))
		ctx.Next()
	})
	mount(api)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateQuizFromText(t *testing.T) {
	svc := &fakeQuizService{}
	r := newRouter(t, NewQuizController(svc, 1<<20).RegisterRoutes)

	w := doJSON(r, http.MethodPost, "/api/v1/quizzes", map[string]string{
		"topic": "Biology", "source_type": "text", "text": "Cells divide.",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(42), svc.created.UserID)
	assert.Equal(t, "Cells divide.", svc.created.Text)
	assert.Nil(t, svc.created.File)
}

func TestCreateQuizFromUploadedFile(t *testing.T) {
	svc := &fakeQuizService{}
	r := newRouter(t, NewQuizController(svc, 1<<20).RegisterRoutes)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("topic", "History"))
	require.NoError(t, mw.WriteField("source_type", "file"))
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("The war ended in 1945."))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "file", svc.created.SourceType)
	assert.Equal(t, []byte("The war ended in 1945."), svc.created.File)
}

func TestCreateQuizRejectsOversizedUpload(t *testing.T) {
	svc := &fakeQuizService{}
	r := newRouter(t, NewQuizController(svc, 4).RegisterRoutes)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("topic", "History"))
	require.NoError(t, mw.WriteField("source_type", "file"))
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("far more than four bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateQuizErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no flashcards", fmt.Errorf("%w: topic x", service.ErrNoSourceData), http.StatusBadRequest},
		{"unsupported file", service.ErrUnsupportedFileType, http.StatusBadRequest},
		{"corrupt file", fmt.Errorf("%w: .pdf", service.ErrUnreadableDocument), http.StatusBadRequest},
		{"generation failed", fmt.Errorf("%w: quota", service.ErrNoQuestionsGenerated), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeQuizService{createErr: tc.err}
			r := newRouter(t, NewQuizController(svc, 0).RegisterRoutes)

			w := doJSON(r, http.MethodPost, "/api/v1/quizzes", map[string]string{"topic": "x", "source_type": "flashcard"})

			assert.Equal(t, tc.want, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Failed to create quiz", resp.Message)
			assert.Contains(t, resp.Details[0], tc.err.Error())
		})
	}
}

func TestCreateQuizRejectsUnknownSourceType(t *testing.T) {
	r := newRouter(t, NewQuizController(&fakeQuizService{}, 0).RegisterRoutes)

	w := doJSON(r, http.MethodPost, "/api/v1/quizzes", map[string]string{"topic": "x", "source_type": "video"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitQuiz(t *testing.T) {
	r := newRouter(t, NewQuizController(&fakeQuizService{}, 0).RegisterRoutes)

	w := doJSON(r, http.MethodPost, "/api/v1/quizzes/submit", dto.QuizSubmitDTO{QuizID: 3, Answers: []string{"a", "b"}, TimeTaken: 30})

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.QuizSubmitResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(3), resp.QuizID)
	assert.Equal(t, 2, resp.Score)
}

func TestSubmitQuizMismatchIsBadRequest(t *testing.T) {
	svc := &fakeQuizService{submitErr: service.ErrInvalidSubmission}
	r := newRouter(t, NewQuizController(svc, 0).RegisterRoutes)

	w := doJSON(r, http.MethodPost, "/api/v1/quizzes/submit", dto.QuizSubmitDTO{QuizID: 3, Answers: []string{"a"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuiz(t *testing.T) {
	svc := &fakeQuizService{}
	r := newRouter(t, NewQuizController(svc, 0).RegisterRoutes)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/v1/quizzes/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/v1/quizzes/abc", nil).Code)

	svc.getErr = service.ErrNotFound
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/v1/quizzes/5", nil).Code)
}

func TestGetSubmissions(t *testing.T) {
	r := newRouter(t, NewQuizController(&fakeQuizService{}, 0).RegisterRoutes)

	w := doJSON(r, http.MethodGet, "/api/v1/quizzes/submissions", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []dto.SubmissionSummaryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, uint(7), got[0].QuizID)
}

func TestCreateTaskValidatesStatus(t *testing.T) {
	svc := &fakeTaskService{}
	r := newRouter(t, NewTaskController(svc).RegisterRoutes)

	w := doJSON(r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "Read ch. 3", "status": "Blocked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/tasks", map[string]string{"title": "Read ch. 3", "status": "In Progress"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "In Progress", svc.created.Status)
}

func TestDeleteTaskNotFound(t *testing.T) {
	svc := &fakeTaskService{deleteErr: fmt.Errorf("task 9: %w", service.ErrNotFound)}
	r := newRouter(t, NewTaskController(svc).RegisterRoutes)

	w := doJSON(r, http.MethodDelete, "/api/v1/tasks/9", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFlashcardsQueryFilter(t *testing.T) {
	svc := &fakeFlashcardService{}
	r := newRouter(t, NewFlashcardController(svc, ImageStore{Dir: t.TempDir()}).RegisterRoutes)

	w := doJSON(r, http.MethodGet, "/api/v1/flashcards?topic=bio&user_id=3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bio", svc.filter.Topic)
	require.NotNil(t, svc.filter.UserID)
	assert.Equal(t, uint(3), *svc.filter.UserID)

	w = doJSON(r, http.MethodGet, "/api/v1/flashcards?user_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlashcardOwnershipErrors(t *testing.T) {
	svc := &fakeFlashcardService{updateErr: service.ErrForbidden}
	r := newRouter(t, NewFlashcardController(svc, ImageStore{Dir: t.TempDir()}).RegisterRoutes)

	w := doJSON(r, http.MethodPut, "/api/v1/flashcards/1", map[string]string{"question": "Q?"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/flashcards/topic/chemistry", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewFlashcard(t *testing.T) {
	r := newRouter(t, NewFlashcardController(&fakeFlashcardService{}, ImageStore{Dir: t.TempDir()}).RegisterRoutes)

	w := doJSON(r, http.MethodPost, "/api/v1/flashcards/4/review", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.FlashcardResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Reviewed)
}

func TestRoutesRequireCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewTaskController(&fakeTaskService{}).RegisterRoutes(r.Group("/api/v1"))

	w := doJSON(r, http.MethodGet, "/api/v1/tasks", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
