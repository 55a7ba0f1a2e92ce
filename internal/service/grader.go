package service

import (
	"fmt"

	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
)

// GradeResult is the outcome of one grading call. Answers is aligned with Results.
type GradeResult struct {
	Score   int
	Answers []string
	Results []dto.QuestionResultDTO
}

// Grade compares answers against the quiz with exact, case-sensitive equality.
// With questionIDs the answers align with those ids, otherwise with the quiz order.
func Grade(quiz *model.Quiz, answers []string, questionIDs []uint) (*GradeResult, error) {
	graded, err := alignQuestions(quiz, answers, questionIDs)
	if err != nil {
		return nil, err
	}

	result := &GradeResult{
		Answers: answers,
		Results: make([]dto.QuestionResultDTO, 0, len(graded)),
	}
	for i, q := range graded {
		correct := answers[i] == q.CorrectAnswer
		if correct {
			result.Score++
		}
		result.Results = append(result.Results, dto.QuestionResultDTO{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			Options:       []string(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    answers[i],
			IsCorrect:     correct,
		})
	}
	return result, nil
}

func alignQuestions(quiz *model.Quiz, answers []string, questionIDs []uint) ([]model.Question, error) {
	if len(questionIDs) == 0 {
		if len(answers) != len(quiz.Questions) {
			return nil, fmt.Errorf("%w: got %d answers for %d questions", ErrInvalidSubmission, len(answers), len(quiz.Questions))
		}
		return quiz.Questions, nil
	}

	if len(questionIDs) != len(answers) {
		return nil, fmt.Errorf("%w: %d question ids for %d answers", ErrInvalidSubmission, len(questionIDs), len(answers))
	}
	if len(questionIDs) > len(quiz.Questions) {
		return nil, fmt.Errorf("%w: %d question ids for %d questions", ErrInvalidSubmission, len(questionIDs), len(quiz.Questions))
	}
	byID := make(map[uint]model.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}
	out := make([]model.Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: question %d is repeated or does not belong to quiz %d", ErrInvalidSubmission, id, quiz.ID)
		}
		// Each question is graded at most once.
		delete(byID, id)
		out = append(out, q)
	}
	return out, nil
}
