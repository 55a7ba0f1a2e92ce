package dto

import "time"

type FlashcardInputDTO struct {
	Question string  `json:"question" binding:"required"`
	Answer   string  `json:"answer" binding:"required"`
	Image    *string `json:"image"`
}

// FlashcardCreateDTO covers the manual and AI-from-text creation modes.
// A PDF upload uses multipart fields topic/notes plus the file.
type FlashcardCreateDTO struct {
	Topic      string              `json:"topic" form:"topic" binding:"required"`
	Notes      string              `json:"notes" form:"notes"`
	Text       string              `json:"text" form:"text"`
	Flashcards []FlashcardInputDTO `json:"flashcards" binding:"omitempty,dive"`
}

type FlashcardUpdateDTO struct {
	Topic    string  `json:"topic" form:"topic"`
	Question string  `json:"question" form:"question"`
	Answer   string  `json:"answer" form:"answer"`
	Notes    *string `json:"notes" form:"notes"`
	Image    *string `json:"image" form:"image"`
}

type FlashcardResponseDTO struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Topic     string    `json:"topic"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Image     *string   `json:"image,omitempty"`
	Notes     string    `json:"notes"`
	Reviewed  bool      `json:"reviewed"`
	CreatedAt time.Time `json:"created_at"`
}

// GeneratedFlashcardDTO is an AI suggestion that has not been persisted.
type GeneratedFlashcardDTO struct {
	Question         string `json:"question"`
	Answer           string `json:"answer"`
	ImageDescription string `json:"imageDescription,omitempty"`
	Image            string `json:"image,omitempty"`
}

type FlashcardCreateResponseDTO struct {
	Message    string                  `json:"message"`
	Flashcards []FlashcardResponseDTO  `json:"flashcards,omitempty"`
	Generated  []GeneratedFlashcardDTO `json:"generated,omitempty"`
}

type FlashcardQueryDTO struct {
	Topic  string `form:"topic"`
	UserID *uint  `form:"user_id"`
}
