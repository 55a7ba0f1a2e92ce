package repository

import (
	"context"
	"time"

	"github.com/lshigami/StudyBuddy/internal/model"
	"gorm.io/gorm"
)

// ProgressDelta holds counter increments; zero fields leave the column unchanged.
// An empty Topic keeps the stored current topic.
type ProgressDelta struct {
	FlashcardsCompleted int
	QuizzesTaken        int
	TotalQuizScore      int
	TotalTimeSpent      int
	TasksCompleted      int
	Topic               string
}

type ProgressRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*model.Progress, error)
	Increment(ctx context.Context, userID uint, delta ProgressDelta) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

const ensureProgressSQL = `INSERT INTO progress (user_id, last_updated) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING`

// Every increment is a single upsert, so concurrent submissions never lose updates.
const incrementProgressSQL = `INSERT INTO progress
	(user_id, flashcards_completed, quizzes_taken, total_quiz_score, total_time_spent, tasks_completed, current_topic, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
	flashcards_completed = progress.flashcards_completed + EXCLUDED.flashcards_completed,
	quizzes_taken = progress.quizzes_taken + EXCLUDED.quizzes_taken,
	total_quiz_score = progress.total_quiz_score + EXCLUDED.total_quiz_score,
	total_time_spent = progress.total_time_spent + EXCLUDED.total_time_spent,
	tasks_completed = progress.tasks_completed + EXCLUDED.tasks_completed,
	current_topic = COALESCE(NULLIF(EXCLUDED.current_topic, ''), progress.current_topic),
	last_updated = EXCLUDED.last_updated`

func (r *progressRepository) GetOrCreate(ctx context.Context, userID uint) (*model.Progress, error) {
	db := r.db.WithContext(ctx)
	if err := db.Exec(ensureProgressSQL, userID, time.Now()).Error; err != nil {
		return nil, err
	}
	var progress model.Progress
	if err := db.Where("user_id = ?", userID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) Increment(ctx context.Context, userID uint, delta ProgressDelta) error {
	return r.db.WithContext(ctx).Exec(incrementProgressSQL,
		userID,
		delta.FlashcardsCompleted,
		delta.QuizzesTaken,
		delta.TotalQuizScore,
		delta.TotalTimeSpent,
		delta.TasksCompleted,
		delta.Topic,
		time.Now(),
	).Error
}
