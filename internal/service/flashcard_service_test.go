package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlashcardService(repo *fakeFlashcardRepo, llm TextGenerator, progress ProgressService) FlashcardService {
	cfg := &config.Config{}
	cfg.Gemini.FlashcardModel = "test-model"
	return NewFlashcardService(repo, llm, NewDocumentExtractor(), progress, cfg)
}

const generatedCards = "```json\n" + `[
  {"question": "What is ATP?", "answer": "Energy currency", "imageDescription": "ATP molecule"},
  {"question": "Where is ATP made?", "answer": "Mitochondria"},
  {"question": " ", "answer": "dropped"}
]` + "\n```"

func TestParseGeneratedFlashcards(t *testing.T) {
	cards := ParseGeneratedFlashcards(generatedCards)

	require.Len(t, cards, 2)
	assert.Equal(t, "What is ATP?", cards[0].Question)
	assert.Equal(t, "https://dummyimage.com/600x400/000/fff&text=ATP%20molecule", cards[0].Image)
	assert.Empty(t, cards[1].Image)

	assert.Nil(t, ParseGeneratedFlashcards("Sorry, I can't do that."))
}

func TestCreateManualFlashcards(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	progress := &recordingProgress{}
	svc := newTestFlashcardService(repo, &fakeTextGenerator{}, progress)

	resp, err := svc.Create(context.Background(), 1, dto.FlashcardCreateDTO{
		Topic: "Go",
		Flashcards: []dto.FlashcardInputDTO{
			{Question: "Q1", Answer: "A1"},
			{Question: "Q2", Answer: "A2"},
		},
	}, nil)

	require.NoError(t, err)
	require.Len(t, resp.Flashcards, 2)
	assert.Equal(t, uint(1), resp.Flashcards[0].UserID)
	assert.Equal(t, "Go", resp.Flashcards[1].Topic)
	assert.Len(t, repo.cards, 2)
	assert.Equal(t, 2, progress.flashcards)
}

func TestCreateFlashcardsFromTextIsNotPersisted(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	llm := &fakeTextGenerator{response: generatedCards}
	svc := newTestFlashcardService(repo, llm, &recordingProgress{})

	resp, err := svc.Create(context.Background(), 1, dto.FlashcardCreateDTO{Topic: "Biology", Text: "ATP powers cells."}, nil)

	require.NoError(t, err)
	assert.Len(t, resp.Generated, 2)
	assert.Empty(t, resp.Flashcards)
	assert.Empty(t, repo.cards)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "ATP powers cells.")
}

func TestCreateFlashcardsGenerationFailures(t *testing.T) {
	t.Run("too few cards", func(t *testing.T) {
		llm := &fakeTextGenerator{response: `[{"question": "Only", "answer": "one"}]`}
		_, err := newTestFlashcardService(&fakeFlashcardRepo{}, llm, &recordingProgress{}).
			Create(context.Background(), 1, dto.FlashcardCreateDTO{Topic: "x", Text: "notes"}, nil)
		assert.ErrorIs(t, err, ErrNotEnoughFlashcards)
	})
	t.Run("provider error", func(t *testing.T) {
		upstream := errors.New("quota")
		_, err := newTestFlashcardService(&fakeFlashcardRepo{}, &fakeTextGenerator{err: upstream}, &recordingProgress{}).
			Create(context.Background(), 1, dto.FlashcardCreateDTO{Topic: "x", Text: "notes"}, nil)
		assert.ErrorIs(t, err, upstream)
		assert.NotErrorIs(t, err, ErrNotEnoughFlashcards)
	})
	t.Run("non-pdf upload", func(t *testing.T) {
		_, err := newTestFlashcardService(&fakeFlashcardRepo{}, &fakeTextGenerator{}, &recordingProgress{}).
			Create(context.Background(), 1, dto.FlashcardCreateDTO{Topic: "x"}, []byte("plain text, not a pdf"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})
	t.Run("nothing provided", func(t *testing.T) {
		_, err := newTestFlashcardService(&fakeFlashcardRepo{}, &fakeTextGenerator{}, &recordingProgress{}).
			Create(context.Background(), 1, dto.FlashcardCreateDTO{Topic: "x"}, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestFlashcardOwnership(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	require.NoError(t, repo.CreateBatch(context.Background(), []model.Flashcard{{UserID: 1, Topic: "Go", Question: "Q", Answer: "A"}}))
	svc := newTestFlashcardService(repo, &fakeTextGenerator{}, &recordingProgress{})
	ctx := context.Background()

	_, err := svc.Update(ctx, 2, 1, dto.FlashcardUpdateDTO{Question: "hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, 2, 1), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, 1, 99), ErrNotFound)

	notes := "see chapter 2"
	updated, err := svc.Update(ctx, 1, 1, dto.FlashcardUpdateDTO{Question: "Q2", Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Q2", updated.Question)
	assert.Equal(t, "A", updated.Answer)
	assert.Equal(t, "see chapter 2", updated.Notes)

	require.NoError(t, svc.Delete(ctx, 1, 1))
	assert.Empty(t, repo.cards)
}

func TestReviewCountsOnce(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	require.NoError(t, repo.CreateBatch(context.Background(), []model.Flashcard{{UserID: 1, Topic: "Go", Question: "Q", Answer: "A"}}))
	progress := &recordingProgress{}
	svc := newTestFlashcardService(repo, &fakeTextGenerator{}, progress)

	for i := 0; i < 3; i++ {
		card, err := svc.Review(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.True(t, card.Reviewed)
	}
	assert.Equal(t, 1, progress.flashcards)
}

func TestGroupedFlashcards(t *testing.T) {
	repo := &fakeFlashcardRepo{}
	require.NoError(t, repo.CreateBatch(context.Background(), []model.Flashcard{
		{UserID: 1, Topic: "Go", Question: "Q1", Answer: "A"},
		{UserID: 1, Topic: "SQL", Question: "Q2", Answer: "A"},
		{UserID: 2, Topic: "Go", Question: "Q3", Answer: "A"},
	}))
	svc := newTestFlashcardService(repo, &fakeTextGenerator{}, &recordingProgress{})

	mine := uint(1)
	grouped, err := svc.Grouped(context.Background(), &mine)
	require.NoError(t, err)
	assert.Len(t, grouped["Go"], 1)
	assert.Len(t, grouped["SQL"], 1)

	all, err := svc.Grouped(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all["Go"], 2)
}
