package model

import (
	"time"

	"gorm.io/gorm"
)

type Flashcard struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"not null;index:idx_flashcards_owner_topic"`
	Topic     string         `json:"topic" gorm:"not null;index:idx_flashcards_owner_topic"`
	Question  string         `json:"question" gorm:"type:text;not null"`
	Answer    string         `json:"answer" gorm:"type:text;not null"`
	Image     *string        `json:"image,omitempty"`
	Notes     string         `json:"notes" gorm:"type:text"`
	Reviewed  bool           `json:"reviewed" gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
