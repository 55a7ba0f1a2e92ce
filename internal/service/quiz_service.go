package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateQuizInput carries the source for a new quiz. File is the raw upload
// for the file source type.
type CreateQuizInput struct {
	UserID     uint
	Topic      string
	SourceType string
	Text       string
	File       []byte
}

type QuizService interface {
	CreateQuiz(ctx context.Context, in CreateQuizInput) (*dto.QuizResponseDTO, error)
	SubmitQuiz(ctx context.Context, userID uint, req dto.QuizSubmitDTO) (*dto.QuizSubmitResponseDTO, error)
	GetHistory(ctx context.Context, userID uint) ([]dto.QuizHistoryDTO, error)
	GetSubmissions(ctx context.Context, userID uint) ([]dto.SubmissionSummaryDTO, error)
	GetQuiz(ctx context.Context, quizID uint) (*dto.QuizResponseDTO, error)
}

type quizService struct {
	quizRepo       repository.QuizRepository
	submissionRepo repository.SubmissionRepository
	generator      QuizGeneratorService
	flashcardQuiz  FlashcardQuizService
	extractor      DocumentExtractor
	progress       ProgressService
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	submissionRepo repository.SubmissionRepository,
	generator QuizGeneratorService,
	flashcardQuiz FlashcardQuizService,
	extractor DocumentExtractor,
	progress ProgressService,
) QuizService {
	return &quizService{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		generator:      generator,
		flashcardQuiz:  flashcardQuiz,
		extractor:      extractor,
		progress:       progress,
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, in CreateQuizInput) (*dto.QuizResponseDTO, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required: %w", ErrInvalidInput)
	}

	var (
		questions []model.Question
		err       error
	)
	switch in.SourceType {
	case model.QuizSourceText:
		if strings.TrimSpace(in.Text) == "" {
			return nil, fmt.Errorf("text is required: %w", ErrInvalidInput)
		}
		questions, err = s.generator.GenerateFromText(ctx, in.Text)
	case model.QuizSourceFile:
		if len(in.File) == 0 {
			return nil, fmt.Errorf("no file uploaded: %w", ErrInvalidInput)
		}
		var text string
		text, err = s.extractor.Extract(in.File)
		if err != nil {
			return nil, err
		}
		questions, err = s.generator.GenerateFromText(ctx, text)
	case model.QuizSourceFlashcard:
		questions, err = s.flashcardQuiz.GenerateFromFlashcards(ctx, in.UserID, topic)
	default:
		return nil, fmt.Errorf("invalid source type %q: %w", in.SourceType, ErrInvalidInput)
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", in.UserID).Str("sourceType", in.SourceType).Msg("CreateQuiz: question generation failed")
		return nil, err
	}

	quiz := &model.Quiz{
		Topic:      topic,
		SourceType: in.SourceType,
		CreatedBy:  in.UserID,
		Questions:  questions,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		log.Error().Err(err).Uint("userID", in.UserID).Msg("CreateQuiz: failed to persist quiz")
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}
	log.Info().Uint("quizID", quiz.ID).Uint("userID", in.UserID).Int("questions", len(quiz.Questions)).Msg("Quiz created")

	return toQuizResponse(quiz, true), nil
}

func (s *quizService) SubmitQuiz(ctx context.Context, userID uint, req dto.QuizSubmitDTO) (*dto.QuizSubmitResponseDTO, error) {
	quiz, err := s.findQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}

	graded, err := Grade(quiz, req.Answers, req.QuestionIDs)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", quiz.ID).Uint("userID", userID).Msg("SubmitQuiz: rejected submission")
		return nil, err
	}

	submission := &model.Submission{
		QuizID:         quiz.ID,
		UserID:         userID,
		UserAnswers:    graded.Answers,
		Score:          graded.Score,
		TotalQuestions: len(graded.Results),
		TimeTaken:      req.TimeTaken,
		TakenAt:        time.Now(),
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Uint("userID", userID).Msg("SubmitQuiz: failed to persist submission")
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	if err := s.progress.RecordQuiz(ctx, userID, graded.Score, req.TimeTaken, quiz.Topic); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("submissionID", submission.ID).Msg("SubmitQuiz: progress update failed")
	}

	return &dto.QuizSubmitResponseDTO{
		SubmissionID:   submission.ID,
		QuizID:         quiz.ID,
		Score:          submission.Score,
		TimeTaken:      submission.TimeTaken,
		TotalQuestions: submission.TotalQuestions,
		TakenAt:        submission.TakenAt,
		Results:        graded.Results,
	}, nil
}

func (s *quizService) GetHistory(ctx context.Context, userID uint) ([]dto.QuizHistoryDTO, error) {
	quizzes, err := s.quizRepo.FindByCreatorWithSubmissions(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetHistory: failed to load quizzes")
		return nil, fmt.Errorf("failed to load quiz history: %w", err)
	}

	history := make([]dto.QuizHistoryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		item := dto.QuizHistoryDTO{
			QuizID:        q.ID,
			Topic:         q.Topic,
			SourceType:    q.SourceType,
			QuestionCount: len(q.Questions),
			CreatedAt:     q.CreatedAt,
			Submissions:   make([]dto.SubmissionSummaryDTO, 0, len(q.Submissions)),
		}
		for _, sub := range q.Submissions {
			item.Submissions = append(item.Submissions, dto.SubmissionSummaryDTO{
				ID:             sub.ID,
				Score:          sub.Score,
				TotalQuestions: sub.TotalQuestions,
				TimeTaken:      sub.TimeTaken,
				TakenAt:        sub.TakenAt,
			})
		}
		history = append(history, item)
	}
	return history, nil
}

// GetSubmissions lists every attempt the user made, on any quiz, newest first.
func (s *quizService) GetSubmissions(ctx context.Context, userID uint) ([]dto.SubmissionSummaryDTO, error) {
	submissions, err := s.submissionRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetSubmissions: failed to load submissions")
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	out := make([]dto.SubmissionSummaryDTO, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, dto.SubmissionSummaryDTO{
			ID:             sub.ID,
			QuizID:         sub.QuizID,
			Score:          sub.Score,
			TotalQuestions: sub.TotalQuestions,
			TimeTaken:      sub.TimeTaken,
			TakenAt:        sub.TakenAt,
		})
	}
	return out, nil
}

// GetQuiz returns the quiz for taking, without correct answers.
func (s *quizService) GetQuiz(ctx context.Context, quizID uint) (*dto.QuizResponseDTO, error) {
	quiz, err := s.findQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(quiz, false), nil
}

func (s *quizService) findQuiz(ctx context.Context, quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("quiz %d: %w", quizID, ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("findQuiz: repository error")
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	return quiz, nil
}

func toQuizResponse(quiz *model.Quiz, withAnswers bool) *dto.QuizResponseDTO {
	resp := &dto.QuizResponseDTO{
		ID:         quiz.ID,
		Topic:      quiz.Topic,
		SourceType: quiz.SourceType,
		CreatedBy:  quiz.CreatedBy,
		CreatedAt:  quiz.CreatedAt,
		Questions:  make([]dto.QuestionResponseDTO, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		item := dto.QuestionResponseDTO{
			ID:           q.ID,
			Position:     q.Position,
			QuestionText: q.QuestionText,
			Options:      []string(q.Options),
		}
		if withAnswers {
			item.CorrectAnswer = q.CorrectAnswer
		}
		resp.Questions = append(resp.Questions, item)
	}
	return resp
}
