package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lshigami/StudyBuddy/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTextGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeTextGenerator) GenerateText(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func questionBlocks(n int) string {
	blocks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		blocks = append(blocks, fmt.Sprintf("Q: Question %d?\nOptions: a%d, b%d, c%d, d%d\nAnswer: b%d", i, i, i, i, i, i))
	}
	return strings.Join(blocks, "\n\n")
}

func newTestGenerator(llm TextGenerator) QuizGeneratorService {
	cfg := &config.Config{}
	cfg.Gemini.QuizModel = "test-model"
	return NewQuizGeneratorService(llm, cfg)
}

func TestGenerateFromTextAlwaysReturnsTwentyValidQuestions(t *testing.T) {
	for _, available := range []int{1, 7, 20, 26} {
		t.Run(fmt.Sprintf("%d blocks", available), func(t *testing.T) {
			llm := &fakeTextGenerator{response: questionBlocks(available)}

			questions, err := newTestGenerator(llm).GenerateFromText(context.Background(), "Some study notes.")

			require.NoError(t, err)
			require.Len(t, questions, QuizQuestionCount)
			for i, q := range questions {
				assert.Equal(t, i+1, q.Position)
				assert.Len(t, q.Options, optionsPerQuestion)
				assert.Contains(t, []string(q.Options), q.CorrectAnswer)
			}
			if available >= QuizQuestionCount {
				assert.Equal(t, "Question 20?", questions[19].QuestionText, "extra questions are truncated")
			}
		})
	}
}

func TestGenerateFromTextPromptCarriesText(t *testing.T) {
	llm := &fakeTextGenerator{response: questionBlocks(1)}

	_, err := newTestGenerator(llm).GenerateFromText(context.Background(), "  Mitochondria make ATP.  ")

	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Mitochondria make ATP.")
	assert.Contains(t, llm.prompts[0], "Generate exactly 20")
}

func TestGenerateFromTextFailures(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		llm := &fakeTextGenerator{}
		_, err := newTestGenerator(llm).GenerateFromText(context.Background(), " \n ")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, llm.prompts)
	})
	t.Run("provider error", func(t *testing.T) {
		upstream := errors.New("quota exceeded")
		_, err := newTestGenerator(&fakeTextGenerator{err: upstream}).GenerateFromText(context.Background(), "text")
		assert.ErrorIs(t, err, ErrNoQuestionsGenerated)
		assert.ErrorIs(t, err, upstream)
	})
	t.Run("nothing parseable", func(t *testing.T) {
		_, err := newTestGenerator(&fakeTextGenerator{response: "I cannot help with that."}).GenerateFromText(context.Background(), "text")
		assert.ErrorIs(t, err, ErrNoQuestionsGenerated)
	})
}

func TestBuildQuestionsShufflesEachCopyIndependently(t *testing.T) {
	s := newShuffler(1)
	src := []ParsedQuestion{{Text: "Only?", Options: []string{"a", "b", "c", "d"}, Answer: "c"}}

	questions := s.buildQuestions(src, QuizQuestionCount)

	require.Len(t, questions, QuizQuestionCount)
	orders := map[string]struct{}{}
	for _, q := range questions {
		assert.Equal(t, "Only?", q.QuestionText)
		assert.Equal(t, "c", q.CorrectAnswer)
		assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, []string(q.Options))
		orders[strings.Join(q.Options, ",")] = struct{}{}
	}
	assert.Greater(t, len(orders), 1)
}
