package repository

import (
	"context"

	"gorm.io/gorm"
)

// ScoreRow is one user's raw leaderboard inputs before ranking.
type ScoreRow struct {
	UserID         uint   `gorm:"column:user_id"`
	Name           string `gorm:"column:name"`
	Email          string `gorm:"column:email"`
	FlashcardScore int    `gorm:"column:flashcard_score"`
	QuizScore      int    `gorm:"column:quiz_score"`
}

type LeaderboardRepository interface {
	Scores(ctx context.Context) ([]ScoreRow, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

const leaderboardScoresSQL = `SELECT u.id AS user_id, u.full_name AS name, u.email AS email,
	COALESCE(p.flashcards_completed, 0) AS flashcard_score,
	COALESCE((SELECT SUM(s.score) FROM submissions s WHERE s.user_id = u.id), 0) AS quiz_score
FROM users u
LEFT JOIN progress p ON p.user_id = u.id
WHERE u.deleted_at IS NULL`

func (r *leaderboardRepository) Scores(ctx context.Context) ([]ScoreRow, error) {
	var rows []ScoreRow
	err := r.db.WithContext(ctx).Raw(leaderboardScoresSQL).Scan(&rows).Error
	return rows, err
}
