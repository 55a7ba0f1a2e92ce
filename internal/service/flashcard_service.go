package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minGeneratedFlashcards = 2

const flashcardPromptTemplate = `Extract at least 5 question-answer pairs from the following study material.
If an image is relevant to better understanding, provide a short image description.

Respond with a JSON array only, in this format:
[{"question": "...?", "answer": "...", "imageDescription": "..."}]

Topic: %s
Text: %s`

type FlashcardService interface {
	// Create persists a manual list, returns AI suggestions for text, or
	// persists AI cards extracted from a PDF, in that order of precedence.
	Create(ctx context.Context, userID uint, req dto.FlashcardCreateDTO, pdf []byte) (*dto.FlashcardCreateResponseDTO, error)
	List(ctx context.Context, filter repository.FlashcardFilter) ([]dto.FlashcardResponseDTO, error)
	Grouped(ctx context.Context, userID *uint) (map[string][]dto.FlashcardResponseDTO, error)
	ByTopic(ctx context.Context, userID uint, topic string) ([]dto.FlashcardResponseDTO, error)
	Update(ctx context.Context, userID, id uint, req dto.FlashcardUpdateDTO) (*dto.FlashcardResponseDTO, error)
	Delete(ctx context.Context, userID, id uint) error
	Review(ctx context.Context, userID, id uint) (*dto.FlashcardResponseDTO, error)
}

type flashcardService struct {
	repo      repository.FlashcardRepository
	llm       TextGenerator
	model     string
	extractor DocumentExtractor
	progress  ProgressService
}

func NewFlashcardService(
	repo repository.FlashcardRepository,
	llm TextGenerator,
	extractor DocumentExtractor,
	progress ProgressService,
	cfg *config.Config,
) FlashcardService {
	return &flashcardService{
		repo:      repo,
		llm:       llm,
		model:     cfg.Gemini.FlashcardModel,
		extractor: extractor,
		progress:  progress,
	}
}

func (s *flashcardService) Create(ctx context.Context, userID uint, req dto.FlashcardCreateDTO, pdf []byte) (*dto.FlashcardCreateResponseDTO, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required: %w", ErrInvalidInput)
	}

	switch {
	case len(req.Flashcards) > 0:
		cards := make([]model.Flashcard, 0, len(req.Flashcards))
		for _, in := range req.Flashcards {
			cards = append(cards, model.Flashcard{
				UserID:   userID,
				Topic:    topic,
				Notes:    req.Notes,
				Question: in.Question,
				Answer:   in.Answer,
				Image:    in.Image,
			})
		}
		saved, err := s.save(ctx, userID, topic, cards)
		if err != nil {
			return nil, err
		}
		return &dto.FlashcardCreateResponseDTO{
			Message:    fmt.Sprintf("%d flashcards created successfully!", len(saved)),
			Flashcards: saved,
		}, nil

	case req.Text != "":
		if strings.TrimSpace(req.Text) == "" {
			return nil, fmt.Errorf("text is empty: %w", ErrInvalidInput)
		}
		generated, err := s.generate(ctx, topic, req.Text)
		if err != nil {
			return nil, err
		}
		return &dto.FlashcardCreateResponseDTO{
			Message:   fmt.Sprintf("%d flashcards generated for review", len(generated)),
			Generated: generated,
		}, nil

	case len(pdf) > 0:
		text, err := s.extractor.ExtractPDF(pdf)
		if err != nil {
			return nil, err
		}
		generated, err := s.generate(ctx, topic, text)
		if err != nil {
			return nil, err
		}
		cards := make([]model.Flashcard, 0, len(generated))
		for _, g := range generated {
			card := model.Flashcard{UserID: userID, Topic: topic, Notes: req.Notes, Question: g.Question, Answer: g.Answer}
			if g.Image != "" {
				img := g.Image
				card.Image = &img
			}
			cards = append(cards, card)
		}
		saved, err := s.save(ctx, userID, topic, cards)
		if err != nil {
			return nil, err
		}
		return &dto.FlashcardCreateResponseDTO{
			Message:    fmt.Sprintf("%d AI-generated flashcards created!", len(saved)),
			Flashcards: saved,
		}, nil
	}
	return nil, fmt.Errorf("no flashcards, text or file provided: %w", ErrInvalidInput)
}

func (s *flashcardService) save(ctx context.Context, userID uint, topic string, cards []model.Flashcard) ([]dto.FlashcardResponseDTO, error) {
	if err := s.repo.CreateBatch(ctx, cards); err != nil {
		log.Error().Err(err).Uint("userID", userID).Int("count", len(cards)).Msg("Create flashcards: repository error")
		return nil, fmt.Errorf("failed to save flashcards: %w", err)
	}
	if err := s.progress.RecordFlashcards(ctx, userID, len(cards), topic); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Create flashcards: progress update failed")
	}
	return toFlashcardResponses(cards)
}

func (s *flashcardService) generate(ctx context.Context, topic, text string) ([]dto.GeneratedFlashcardDTO, error) {
	raw, err := s.llm.GenerateText(ctx, s.model, fmt.Sprintf(flashcardPromptTemplate, topic, text))
	if err != nil {
		return nil, fmt.Errorf("flashcard generation failed: %w", err)
	}
	cards := ParseGeneratedFlashcards(raw)
	if len(cards) < minGeneratedFlashcards {
		log.Warn().Int("cards", len(cards)).Str("topic", topic).Msg("Flashcard generation returned too few cards")
		return nil, ErrNotEnoughFlashcards
	}
	return cards, nil
}

// ParseGeneratedFlashcards decodes the model's JSON array, tolerating
// markdown code fences. Cards missing a question or answer are dropped.
func ParseGeneratedFlashcards(raw string) []dto.GeneratedFlashcardDTO {
	cleaned := strings.NewReplacer("```json", "", "```", "").Replace(raw)
	var decoded []dto.GeneratedFlashcardDTO
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &decoded); err != nil {
		log.Warn().Err(err).Msg("ParseGeneratedFlashcards: response is not a JSON array")
		return nil
	}

	out := decoded[:0]
	for _, c := range decoded {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Question == "" || c.Answer == "" {
			continue
		}
		if c.ImageDescription != "" {
			c.Image = placeholderImage(c.ImageDescription)
		}
		out = append(out, c)
	}
	return out
}

func placeholderImage(description string) string {
	return "https://dummyimage.com/600x400/000/fff&text=" + url.PathEscape(description)
}

func (s *flashcardService) List(ctx context.Context, filter repository.FlashcardFilter) ([]dto.FlashcardResponseDTO, error) {
	cards, err := s.repo.Find(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("List flashcards: repository error")
		return nil, fmt.Errorf("failed to load flashcards: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no flashcards found: %w", ErrNotFound)
	}
	return toFlashcardResponses(cards)
}

// Grouped returns cards keyed by topic; a nil userID covers all users.
func (s *flashcardService) Grouped(ctx context.Context, userID *uint) (map[string][]dto.FlashcardResponseDTO, error) {
	var (
		cards []model.Flashcard
		err   error
	)
	if userID != nil {
		cards, err = s.repo.FindByOwner(ctx, *userID)
	} else {
		cards, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("Grouped flashcards: repository error")
		return nil, fmt.Errorf("failed to load flashcards: %w", err)
	}

	items, err := toFlashcardResponses(cards)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]dto.FlashcardResponseDTO)
	for _, item := range items {
		grouped[item.Topic] = append(grouped[item.Topic], item)
	}
	return grouped, nil
}

func (s *flashcardService) ByTopic(ctx context.Context, userID uint, topic string) ([]dto.FlashcardResponseDTO, error) {
	return s.List(ctx, repository.FlashcardFilter{Topic: topic, UserID: &userID})
}

func (s *flashcardService) Update(ctx context.Context, userID, id uint, req dto.FlashcardUpdateDTO) (*dto.FlashcardResponseDTO, error) {
	card, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Topic != "" {
		card.Topic = req.Topic
	}
	if req.Question != "" {
		card.Question = req.Question
	}
	if req.Answer != "" {
		card.Answer = req.Answer
	}
	if req.Notes != nil {
		card.Notes = *req.Notes
	}
	if req.Image != nil {
		card.Image = req.Image
	}
	if err := s.repo.Update(ctx, card); err != nil {
		log.Error().Err(err).Uint("flashcardID", id).Msg("Update flashcard: repository error")
		return nil, fmt.Errorf("failed to update flashcard: %w", err)
	}
	return toFlashcardResponse(card)
}

func (s *flashcardService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("flashcardID", id).Msg("Delete flashcard: repository error")
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}
	return nil
}

// Review marks the card reviewed; only the first review counts toward progress.
func (s *flashcardService) Review(ctx context.Context, userID, id uint) (*dto.FlashcardResponseDTO, error) {
	card, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	changed, err := s.repo.MarkReviewed(ctx, id)
	if err != nil {
		log.Error().Err(err).Uint("flashcardID", id).Msg("Review flashcard: repository error")
		return nil, fmt.Errorf("failed to review flashcard: %w", err)
	}
	card.Reviewed = true
	if changed {
		if err := s.progress.RecordFlashcards(ctx, userID, 1, card.Topic); err != nil {
			log.Error().Err(err).Uint("userID", userID).Msg("Review flashcard: progress update failed")
		}
	}
	return toFlashcardResponse(card)
}

func (s *flashcardService) owned(ctx context.Context, userID, id uint) (*model.Flashcard, error) {
	card, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("flashcard %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load flashcard: %w", err)
	}
	if card.UserID != userID {
		log.Warn().Uint("flashcardID", id).Uint("userID", userID).Msg("Flashcard access denied")
		return nil, fmt.Errorf("flashcard %d: %w", id, ErrForbidden)
	}
	return card, nil
}

func toFlashcardResponse(card *model.Flashcard) (*dto.FlashcardResponseDTO, error) {
	var resp dto.FlashcardResponseDTO
	if err := copier.Copy(&resp, card); err != nil {
		return nil, fmt.Errorf("failed to map flashcard: %w", err)
	}
	return &resp, nil
}

func toFlashcardResponses(cards []model.Flashcard) ([]dto.FlashcardResponseDTO, error) {
	resp := make([]dto.FlashcardResponseDTO, 0, len(cards))
	if err := copier.Copy(&resp, &cards); err != nil {
		return nil, fmt.Errorf("failed to map flashcards: %w", err)
	}
	return resp, nil
}
