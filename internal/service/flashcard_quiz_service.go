package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
)

var distractorPool = []string{
	"Cloud storage techniques",
	"Data encryption methods",
	"System architecture patterns",
	"AI model tuning strategies",
	"Code versioning best practices",
}

type FlashcardQuizService interface {
	GenerateFromFlashcards(ctx context.Context, userID uint, topic string) ([]model.Question, error)
}

type flashcardQuizService struct {
	flashcardRepo repository.FlashcardRepository
	shuffle       *shuffler
}

func NewFlashcardQuizService(flashcardRepo repository.FlashcardRepository) FlashcardQuizService {
	return &flashcardQuizService{
		flashcardRepo: flashcardRepo,
		shuffle:       newShuffler(time.Now().UnixNano()),
	}
}

func (s *flashcardQuizService) GenerateFromFlashcards(ctx context.Context, userID uint, topic string) ([]model.Question, error) {
	cards, err := s.flashcardRepo.FindByOwnerAndTopic(ctx, userID, topic)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Str("topic", topic).Msg("GenerateFromFlashcards: failed to load flashcards")
		return nil, fmt.Errorf("failed to load flashcards: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no flashcards for topic %q: %w", topic, ErrNoSourceData)
	}

	parsed := make([]ParsedQuestion, 0, len(cards))
	for _, card := range cards {
		parsed = append(parsed, ParsedQuestion{
			Text:    card.Question,
			Options: append([]string{card.Answer}, s.distractors(card.Answer)...),
			Answer:  card.Answer,
		})
	}
	return s.shuffle.buildQuestions(parsed, QuizQuestionCount), nil
}

// distractors samples three pool entries without replacement, skipping the answer.
func (s *flashcardQuizService) distractors(answer string) []string {
	candidates := make([]string, 0, len(distractorPool))
	for _, d := range distractorPool {
		if d != answer {
			candidates = append(candidates, d)
		}
	}
	return s.shuffle.perm(candidates)[:optionsPerQuestion-1]
}
