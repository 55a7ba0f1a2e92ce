package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
)

type ProgressService interface {
	GetProgress(ctx context.Context, userID uint) (*dto.ProgressResponseDTO, error)
	RecordFlashcards(ctx context.Context, userID uint, count int, topic string) error
	RecordQuiz(ctx context.Context, userID uint, score, timeTaken int, topic string) error
	RecordTaskCompleted(ctx context.Context, userID uint) error
}

type progressService struct {
	repo        repository.ProgressRepository
	leaderboard LeaderboardService
}

func NewProgressService(repo repository.ProgressRepository, leaderboard LeaderboardService) ProgressService {
	return &progressService{repo: repo, leaderboard: leaderboard}
}

func (s *progressService) GetProgress(ctx context.Context, userID uint) (*dto.ProgressResponseDTO, error) {
	progress, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetProgress: repository error")
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	var resp dto.ProgressResponseDTO
	if err := copier.Copy(&resp, progress); err != nil {
		return nil, fmt.Errorf("failed to map progress: %w", err)
	}
	return &resp, nil
}

func (s *progressService) RecordFlashcards(ctx context.Context, userID uint, count int, topic string) error {
	if count <= 0 {
		return nil
	}
	err := s.repo.Increment(ctx, userID, repository.ProgressDelta{FlashcardsCompleted: count, Topic: topic})
	s.invalidate(ctx)
	return err
}

func (s *progressService) RecordQuiz(ctx context.Context, userID uint, score, timeTaken int, topic string) error {
	err := s.repo.Increment(ctx, userID, repository.ProgressDelta{
		QuizzesTaken:   1,
		TotalQuizScore: score,
		TotalTimeSpent: timeTaken,
		Topic:          topic,
	})
	// quiz scores come from submissions, so the cache is stale even if the counter update failed
	s.invalidate(ctx)
	return err
}

func (s *progressService) RecordTaskCompleted(ctx context.Context, userID uint) error {
	return s.repo.Increment(ctx, userID, repository.ProgressDelta{TasksCompleted: 1})
}

func (s *progressService) invalidate(ctx context.Context) {
	if err := s.leaderboard.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Leaderboard cache invalidation failed")
	}
}
