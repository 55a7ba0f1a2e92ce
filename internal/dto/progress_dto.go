package dto

import "time"

type ProgressResponseDTO struct {
	UserID              uint      `json:"user_id"`
	FlashcardsCompleted int       `json:"flashcards_completed"`
	QuizzesTaken        int       `json:"quizzes_taken"`
	TotalQuizScore      int       `json:"total_quiz_score"`
	TotalTimeSpent      int       `json:"total_time_spent"`
	TasksCompleted      int       `json:"tasks_completed"`
	CurrentTopic        string    `json:"current_topic"`
	LastUpdated         time.Time `json:"last_updated"`
}
