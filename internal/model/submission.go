package model

import (
	"time"

	"github.com/lib/pq"
)

type Submission struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	QuizID         uint           `json:"quiz_id" gorm:"not null;index"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	UserAnswers    pq.StringArray `json:"user_answers" gorm:"type:text[];not null"`
	Score          int            `json:"score" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	TimeTaken      int            `json:"time_taken"` // seconds
	TakenAt        time.Time      `json:"taken_at" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
}
