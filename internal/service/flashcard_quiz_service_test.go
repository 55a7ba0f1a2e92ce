package service

import (
	"context"
	"testing"

	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeFlashcardRepo keeps cards in memory, keyed by ID.
type fakeFlashcardRepo struct {
	cards  []model.Flashcard
	nextID uint
}

func (r *fakeFlashcardRepo) CreateBatch(_ context.Context, cards []model.Flashcard) error {
	for i := range cards {
		r.nextID++
		cards[i].ID = r.nextID
		r.cards = append(r.cards, cards[i])
	}
	return nil
}

func (r *fakeFlashcardRepo) FindByID(_ context.Context, id uint) (*model.Flashcard, error) {
	for i := range r.cards {
		if r.cards[i].ID == id {
			c := r.cards[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFlashcardRepo) Find(_ context.Context, _ repository.FlashcardFilter) ([]model.Flashcard, error) {
	return r.cards, nil
}

func (r *fakeFlashcardRepo) FindByOwnerAndTopic(_ context.Context, userID uint, topic string) ([]model.Flashcard, error) {
	var out []model.Flashcard
	for _, c := range r.cards {
		if c.UserID == userID && c.Topic == topic {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeFlashcardRepo) FindByOwner(_ context.Context, userID uint) ([]model.Flashcard, error) {
	var out []model.Flashcard
	for _, c := range r.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeFlashcardRepo) FindAll(context.Context) ([]model.Flashcard, error) {
	return r.cards, nil
}

func (r *fakeFlashcardRepo) Update(_ context.Context, card *model.Flashcard) error {
	for i := range r.cards {
		if r.cards[i].ID == card.ID {
			r.cards[i] = *card
		}
	}
	return nil
}

func (r *fakeFlashcardRepo) Delete(_ context.Context, id uint) error {
	for i := range r.cards {
		if r.cards[i].ID == id {
			r.cards = append(r.cards[:i], r.cards[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFlashcardRepo) MarkReviewed(_ context.Context, id uint) (bool, error) {
	for i := range r.cards {
		if r.cards[i].ID == id && !r.cards[i].Reviewed {
			r.cards[i].Reviewed = true
			return true, nil
		}
	}
	return false, nil
}

func TestGenerateFromFlashcards(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	require.NoError(t, repo.CreateBatch(context.Background(), []model.Flashcard{
		{UserID: 1, Topic: "Go", Question: "What does defer do?", Answer: "Runs at function return"},
		{UserID: 1, Topic: "Go", Question: "Zero value of a map?", Answer: "nil"},
		{UserID: 2, Topic: "Go", Question: "Not mine", Answer: "x"},
	}))

	questions, err := NewFlashcardQuizService(repo).GenerateFromFlashcards(context.Background(), 1, "Go")

	require.NoError(t, err)
	require.Len(t, questions, QuizQuestionCount)
	for _, q := range questions {
		assert.NotEqual(t, "Not mine", q.QuestionText)
		require.Len(t, q.Options, optionsPerQuestion)
		assert.Contains(t, []string(q.Options), q.CorrectAnswer)
		distractors := 0
		for _, opt := range q.Options {
			if opt != q.CorrectAnswer {
				assert.Contains(t, distractorPool, opt)
				distractors++
			}
		}
		assert.Equal(t, optionsPerQuestion-1, distractors)
	}
}

func TestGenerateFromFlashcardsAnswerInPool(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	require.NoError(t, repo.CreateBatch(context.Background(), []model.Flashcard{
		{UserID: 1, Topic: "Sec", Question: "AES is an example of?", Answer: "Data encryption methods"},
	}))

	questions, err := NewFlashcardQuizService(repo).GenerateFromFlashcards(context.Background(), 1, "Sec")

	require.NoError(t, err)
	for _, q := range questions {
		seen := map[string]int{}
		for _, opt := range q.Options {
			seen[opt]++
		}
		assert.Len(t, seen, optionsPerQuestion, "options stay distinct when the answer is also a distractor")
	}
}

func TestGenerateFromFlashcardsWithoutCards(t *testing.T) {
	_, err := NewFlashcardQuizService(&fakeFlashcardRepo{}).GenerateFromFlashcards(context.Background(), 1, "Empty")

	assert.ErrorIs(t, err, ErrNoSourceData)
}
