package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
)

const leaderboardCacheKey = "leaderboard:top"

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponseDTO, error)
	Invalidate(ctx context.Context) error
}

type leaderboardService struct {
	repo  repository.LeaderboardRepository
	redis *redis.Client
	ttl   time.Duration
	size  int
}

// NewLeaderboardService caches in Redis when rdb is non-nil.
func NewLeaderboardService(repo repository.LeaderboardRepository, rdb *redis.Client, cfg *config.Config) LeaderboardService {
	return &leaderboardService{
		repo:  repo,
		redis: rdb,
		ttl:   cfg.Leaderboard.CacheTTL,
		size:  cfg.Leaderboard.Size,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponseDTO, error) {
	if s.redis != nil {
		val, err := s.redis.Get(ctx, leaderboardCacheKey).Bytes()
		switch {
		case err == nil:
			var cached dto.LeaderboardResponseDTO
			if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
				return &cached, nil
			}
			log.Warn().Str("key", leaderboardCacheKey).Msg("GetLeaderboard: discarding undecodable cache entry")
		case errors.Is(err, redis.Nil):
		default:
			log.Warn().Err(err).Msg("GetLeaderboard: cache read failed, falling back to database")
		}
	}

	rows, err := s.repo.Scores(ctx)
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: failed to load scores")
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	result := &dto.LeaderboardResponseDTO{Leaderboard: RankLeaderboard(rows, s.size)}

	if s.redis != nil {
		jsonData, err := json.Marshal(result)
		if err != nil {
			log.Warn().Err(err).Msg("GetLeaderboard: failed to encode leaderboard for cache")
		} else if err := s.redis.Set(ctx, leaderboardCacheKey, jsonData, s.ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("GetLeaderboard: cache write failed")
		}
	}
	return result, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, leaderboardCacheKey).Err()
}

// RankLeaderboard sorts by total score descending, ties by name then id, and keeps the top size.
func RankLeaderboard(rows []repository.ScoreRow, size int) []dto.LeaderboardEntryDTO {
	entries := make([]dto.LeaderboardEntryDTO, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, dto.LeaderboardEntryDTO{
			User:           dto.LeaderboardUserDTO{ID: r.UserID, Name: r.Name, Email: r.Email},
			FlashcardScore: r.FlashcardScore,
			QuizScore:      r.QuizScore,
			TotalScore:     r.FlashcardScore + r.QuizScore,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.User.Name != b.User.Name {
			return a.User.Name < b.User.Name
		}
		return a.User.ID < b.User.ID
	})
	if size > 0 && len(entries) > size {
		entries = entries[:size]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
