package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizSourceText      = "text"
	QuizSourceFile      = "file"
	QuizSourceFlashcard = "flashcard"
)

type Quiz struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Topic       string         `json:"topic" gorm:"not null;index"`
	SourceType  string         `json:"source_type" gorm:"not null"` // "text", "file", "flashcard"
	CreatedBy   uint           `json:"created_by" gorm:"not null;index"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;"`
	Submissions []Submission   `json:"submissions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
