package model

import (
	"time"

	"github.com/lib/pq"
)

// Question is immutable once its quiz is persisted.
type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Position      int            `json:"position" gorm:"not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text;not null"`
	Options       pq.StringArray `json:"options" gorm:"type:text[];not null"`
	CorrectAnswer string         `json:"correct_answer" gorm:"type:text;not null"`
	CreatedAt     time.Time      `json:"created_at"`
}
