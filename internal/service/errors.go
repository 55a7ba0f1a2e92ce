package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrNoSourceData         = errors.New("no source data")
	ErrNoQuestionsGenerated = errors.New("no questions generated")
	ErrInvalidSubmission    = errors.New("invalid submission")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrEmptyDocument        = errors.New("no text could be extracted")
	ErrUnreadableDocument   = errors.New("document could not be read")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrDuplicateUser        = errors.New("email or user name already registered")
	ErrInvalidResetCode     = errors.New("invalid or expired reset code")
	ErrAIUnavailable        = errors.New("AI service is unavailable")
	ErrNotEnoughFlashcards  = errors.New("AI did not generate enough flashcards")
)
