package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaderboardRepo struct {
	rows  []repository.ScoreRow
	calls int
}

func (r *fakeLeaderboardRepo) Scores(context.Context) ([]repository.ScoreRow, error) {
	r.calls++
	return r.rows, nil
}

func leaderboardConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Leaderboard.CacheTTL = time.Minute
	cfg.Leaderboard.Size = 10
	return cfg
}

func TestRankLeaderboard(t *testing.T) {
	rows := []repository.ScoreRow{
		{UserID: 1, Name: "Ana", FlashcardScore: 10, QuizScore: 20},
		{UserID: 2, Name: "Ben", FlashcardScore: 5, QuizScore: 5},
		{UserID: 3, Name: "Cid", FlashcardScore: 0, QuizScore: 20},
	}

	entries := RankLeaderboard(rows, 10)

	require.Len(t, entries, 3)
	assert.Equal(t, []int{30, 20, 10}, []int{entries[0].TotalScore, entries[1].TotalScore, entries[2].TotalScore})
	assert.Equal(t, []string{"Ana", "Cid", "Ben"}, []string{entries[0].User.Name, entries[1].User.Name, entries[2].User.Name})
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRankLeaderboardTiesAndLimit(t *testing.T) {
	var rows []repository.ScoreRow
	for i := 12; i >= 1; i-- {
		rows = append(rows, repository.ScoreRow{UserID: uint(i), Name: string(rune('a' + i)), FlashcardScore: 1})
	}

	entries := RankLeaderboard(rows, 10)

	require.Len(t, entries, 10)
	assert.Equal(t, "b", entries[0].User.Name, "equal totals order by name")
	assert.Equal(t, 10, entries[9].Rank)
}

func TestGetLeaderboardCacheMissWritesCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &fakeLeaderboardRepo{rows: []repository.ScoreRow{{UserID: 1, Name: "Ana", FlashcardScore: 2, QuizScore: 3}}}
	svc := NewLeaderboardService(repo, db, leaderboardConfig())

	want := &dto.LeaderboardResponseDTO{Leaderboard: RankLeaderboard(repo.rows, 10)}
	jsonData, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet(leaderboardCacheKey).RedisNil()
	mock.ExpectSet(leaderboardCacheKey, jsonData, time.Minute).SetVal("OK")

	got, err := svc.GetLeaderboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLeaderboardCacheWriteFailureStillAnswers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &fakeLeaderboardRepo{rows: []repository.ScoreRow{{UserID: 1, Name: "Ana", QuizScore: 4}}}
	svc := NewLeaderboardService(repo, db, leaderboardConfig())

	want := &dto.LeaderboardResponseDTO{Leaderboard: RankLeaderboard(repo.rows, 10)}
	jsonData, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet(leaderboardCacheKey).RedisNil()
	mock.ExpectSet(leaderboardCacheKey, jsonData, time.Minute).SetErr(errors.New("READONLY"))

	got, err := svc.GetLeaderboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLeaderboardCacheHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &fakeLeaderboardRepo{}
	svc := NewLeaderboardService(repo, db, leaderboardConfig())

	cached := dto.LeaderboardResponseDTO{Leaderboard: []dto.LeaderboardEntryDTO{
		{Rank: 1, User: dto.LeaderboardUserDTO{ID: 4, Name: "Dee"}, FlashcardScore: 1, QuizScore: 1, TotalScore: 2},
	}}
	jsonData, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet(leaderboardCacheKey).SetVal(string(jsonData))

	got, err := svc.GetLeaderboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &cached, got)
	assert.Zero(t, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLeaderboardRedisDownFallsBack(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := &fakeLeaderboardRepo{rows: []repository.ScoreRow{{UserID: 1, Name: "Ana", FlashcardScore: 1}}}
	svc := NewLeaderboardService(repo, db, leaderboardConfig())

	jsonData, err := json.Marshal(&dto.LeaderboardResponseDTO{Leaderboard: RankLeaderboard(repo.rows, 10)})
	require.NoError(t, err)
	mock.ExpectGet(leaderboardCacheKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(leaderboardCacheKey, jsonData, time.Minute).SetErr(errors.New("connection refused"))

	got, err := svc.GetLeaderboard(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Leaderboard, 1)
	assert.Equal(t, 1, repo.calls)
}

func TestLeaderboardWithoutRedis(t *testing.T) {
	repo := &fakeLeaderboardRepo{rows: []repository.ScoreRow{{UserID: 1, Name: "Ana"}}}
	svc := NewLeaderboardService(repo, nil, leaderboardConfig())

	got, err := svc.GetLeaderboard(context.Background())

	require.NoError(t, err)
	assert.Len(t, got.Leaderboard, 1)
	assert.NoError(t, svc.Invalidate(context.Background()))
}

func TestLeaderboardInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewLeaderboardService(&fakeLeaderboardRepo{}, db, leaderboardConfig())
	mock.ExpectDel(leaderboardCacheKey).SetVal(1)

	require.NoError(t, svc.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
