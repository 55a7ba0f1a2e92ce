package dto

import "time"

// QuizCreateDTO is bound from JSON or multipart form; the file part is read separately.
type QuizCreateDTO struct {
	Topic      string `json:"topic" form:"topic"`
	SourceType string `json:"source_type" form:"source_type" binding:"required,oneof=text file flashcard"`
	Text       string `json:"text" form:"text"`
}

type QuestionResponseDTO struct {
	ID            uint     `json:"id"`
	Position      int      `json:"position"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type QuizResponseDTO struct {
	ID         uint                  `json:"id"`
	Topic      string                `json:"topic"`
	SourceType string                `json:"source_type"`
	CreatedBy  uint                  `json:"created_by"`
	Questions  []QuestionResponseDTO `json:"questions"`
	CreatedAt  time.Time             `json:"created_at"`
}

// QuizSubmitDTO answers are positional: aligned with QuestionIDs when given,
// otherwise with the quiz questions in order.
type QuizSubmitDTO struct {
	QuizID      uint     `json:"quiz_id" binding:"required"`
	Answers     []string `json:"answers" binding:"required"`
	QuestionIDs []uint   `json:"question_ids"`
	TimeTaken   int      `json:"time_taken" binding:"min=0"`
}

type QuestionResultDTO struct {
	QuestionID    uint     `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
	IsCorrect     bool     `json:"is_correct"`
}

type QuizSubmitResponseDTO struct {
	SubmissionID   uint                `json:"submission_id"`
	QuizID         uint                `json:"quiz_id"`
	Score          int                 `json:"score"`
	TimeTaken      int                 `json:"time_taken"`
	TotalQuestions int                 `json:"total_questions"`
	TakenAt        time.Time           `json:"taken_at"`
	Results        []QuestionResultDTO `json:"results"`
}

type SubmissionSummaryDTO struct {
	ID             uint      `json:"id"`
	QuizID         uint      `json:"quiz_id,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      int       `json:"time_taken"`
	TakenAt        time.Time `json:"taken_at"`
}

type QuizHistoryDTO struct {
	QuizID        uint                   `json:"quiz_id"`
	Topic         string                 `json:"topic"`
	SourceType    string                 `json:"source_type"`
	QuestionCount int                    `json:"question_count"`
	CreatedAt     time.Time              `json:"created_at"`
	Submissions   []SubmissionSummaryDTO `json:"submissions"`
}
