package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/rs/zerolog/log"
)

// QuizQuestionCount is the size of every persisted quiz.
const QuizQuestionCount = 20

const quizPromptTemplate = `Generate exactly %d multiple-choice questions from the text below.
Each question must use exactly this format, with one blank line between questions:
Q: Question here?
Options: Option1, Option2, Option3, Option4
Answer: CorrectOption

The answer must repeat one of the four options word for word.

Text:
"""
%s
"""`

type QuizGeneratorService interface {
	GenerateFromText(ctx context.Context, text string) ([]model.Question, error)
}

type quizGeneratorService struct {
	llm     TextGenerator
	model   string
	shuffle *shuffler
}

func NewQuizGeneratorService(llm TextGenerator, cfg *config.Config) QuizGeneratorService {
	return &quizGeneratorService{
		llm:     llm,
		model:   cfg.Gemini.QuizModel,
		shuffle: newShuffler(time.Now().UnixNano()),
	}
}

func (s *quizGeneratorService) GenerateFromText(ctx context.Context, text string) ([]model.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("source text is empty: %w", ErrInvalidInput)
	}

	raw, err := s.llm.GenerateText(ctx, s.model, fmt.Sprintf(quizPromptTemplate, QuizQuestionCount, text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoQuestionsGenerated, err)
	}

	parsed := ParseQuestionBlocks(raw)
	for _, sk := range parsed.Skipped {
		log.Warn().Int("block", sk.Block).Str("reason", sk.Reason).Msg("GenerateFromText: skipped question block")
	}
	if len(parsed.Questions) == 0 {
		log.Error().Int("skipped", len(parsed.Skipped)).Msg("GenerateFromText: no parseable question blocks")
		return nil, ErrNoQuestionsGenerated
	}
	log.Info().Int("parsed", len(parsed.Questions)).Int("skipped", len(parsed.Skipped)).Msg("Quiz questions parsed")

	return s.shuffle.buildQuestions(parsed.Questions, QuizQuestionCount), nil
}

type shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newShuffler(seed int64) *shuffler {
	return &shuffler{rng: rand.New(rand.NewSource(seed))}
}

// perm returns a shuffled copy of items.
func (s *shuffler) perm(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.mu.Unlock()
	return out
}

func (s *shuffler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// buildQuestions truncates or pads by duplicating random picks to exactly n,
// shuffling each question's options independently. src must not be empty.
func (s *shuffler) buildQuestions(src []ParsedQuestion, n int) []model.Question {
	picked := src
	if len(picked) > n {
		picked = picked[:n]
	}
	out := make([]model.Question, 0, n)
	for _, p := range picked {
		out = append(out, s.toModel(p, len(out)+1))
	}
	for len(out) < n {
		out = append(out, s.toModel(src[s.intn(len(src))], len(out)+1))
	}
	return out
}

func (s *shuffler) toModel(p ParsedQuestion, position int) model.Question {
	return model.Question{
		Position:      position,
		QuestionText:  p.Text,
		Options:       s.perm(p.Options),
		CorrectAnswer: p.Answer,
	}
}
