package model

import "time"

type Progress struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	UserID              uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	FlashcardsCompleted int       `json:"flashcards_completed" gorm:"not null;default:0"`
	QuizzesTaken        int       `json:"quizzes_taken" gorm:"not null;default:0"`
	TotalQuizScore      int       `json:"total_quiz_score" gorm:"not null;default:0"`
	TotalTimeSpent      int       `json:"total_time_spent" gorm:"not null;default:0"`
	TasksCompleted      int       `json:"tasks_completed" gorm:"not null;default:0"`
	CurrentTopic        string    `json:"current_topic"`
	LastUpdated         time.Time `json:"last_updated"`
}

func (Progress) TableName() string { return "progress" }
