package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgressRepo struct {
	mu     sync.Mutex
	rows   map[uint]*model.Progress
	err    error
	deltas []repository.ProgressDelta
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: map[uint]*model.Progress{}}
}

func (r *fakeProgressRepo) GetOrCreate(_ context.Context, userID uint) (*model.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[userID]
	if !ok {
		p = &model.Progress{UserID: userID}
		r.rows[userID] = p
	}
	c := *p
	return &c, nil
}

func (r *fakeProgressRepo) Increment(_ context.Context, userID uint, d repository.ProgressDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.deltas = append(r.deltas, d)
	p, ok := r.rows[userID]
	if !ok {
		p = &model.Progress{UserID: userID}
		r.rows[userID] = p
	}
	p.FlashcardsCompleted += d.FlashcardsCompleted
	p.QuizzesTaken += d.QuizzesTaken
	p.TotalQuizScore += d.TotalQuizScore
	p.TotalTimeSpent += d.TotalTimeSpent
	p.TasksCompleted += d.TasksCompleted
	if d.Topic != "" {
		p.CurrentTopic = d.Topic
	}
	return nil
}

type fakeLeaderboard struct {
	mu            sync.Mutex
	invalidations int
}

func (f *fakeLeaderboard) GetLeaderboard(context.Context) (*dto.LeaderboardResponseDTO, error) {
	return &dto.LeaderboardResponseDTO{}, nil
}

func (f *fakeLeaderboard) Invalidate(context.Context) error {
	f.mu.Lock()
	f.invalidations++
	f.mu.Unlock()
	return nil
}

// recordingProgress counts calls without touching storage.
type recordingProgress struct {
	mu             sync.Mutex
	flashcards     int
	quizzes        int
	quizScore      int
	tasksCompleted int
	quizErr        error
}

func (p *recordingProgress) GetProgress(_ context.Context, userID uint) (*dto.ProgressResponseDTO, error) {
	return &dto.ProgressResponseDTO{UserID: userID}, nil
}

func (p *recordingProgress) RecordFlashcards(_ context.Context, _ uint, count int, _ string) error {
	p.mu.Lock()
	p.flashcards += count
	p.mu.Unlock()
	return nil
}

func (p *recordingProgress) RecordQuiz(_ context.Context, _ uint, score, _ int, _ string) error {
	p.mu.Lock()
	p.quizzes++
	p.quizScore += score
	p.mu.Unlock()
	return p.quizErr
}

func (p *recordingProgress) RecordTaskCompleted(context.Context, uint) error {
	p.mu.Lock()
	p.tasksCompleted++
	p.mu.Unlock()
	return nil
}

func TestProgressServiceRecordsAndInvalidates(t *testing.T) {
	repo := newFakeProgressRepo()
	board := &fakeLeaderboard{}
	svc := NewProgressService(repo, board)
	ctx := context.Background()

	require.NoError(t, svc.RecordFlashcards(ctx, 1, 3, "Biology"))
	require.NoError(t, svc.RecordQuiz(ctx, 1, 15, 120, "Chemistry"))
	require.NoError(t, svc.RecordTaskCompleted(ctx, 1))
	require.NoError(t, svc.RecordFlashcards(ctx, 1, 0, "ignored"))

	progress, err := svc.GetProgress(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.FlashcardsCompleted)
	assert.Equal(t, 1, progress.QuizzesTaken)
	assert.Equal(t, 15, progress.TotalQuizScore)
	assert.Equal(t, 120, progress.TotalTimeSpent)
	assert.Equal(t, 1, progress.TasksCompleted)
	assert.Equal(t, "Chemistry", progress.CurrentTopic)
	assert.Equal(t, 2, board.invalidations, "flashcard and quiz updates invalidate the leaderboard")
	assert.Len(t, repo.deltas, 3)
}

func TestProgressServiceInvalidatesEvenWhenQuizUpdateFails(t *testing.T) {
	repo := newFakeProgressRepo()
	repo.err = errors.New("db down")
	board := &fakeLeaderboard{}

	err := NewProgressService(repo, board).RecordQuiz(context.Background(), 1, 5, 10, "")

	assert.Error(t, err)
	assert.Equal(t, 1, board.invalidations)
}

func TestProgressServiceConcurrentQuizzes(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo, &fakeLeaderboard{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.RecordQuiz(context.Background(), 7, 2, 1, "")
		}()
	}
	wg.Wait()

	progress, err := svc.GetProgress(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.QuizzesTaken)
	assert.Equal(t, 100, progress.TotalQuizScore)
}
