package repository

import (
	"context"
	"strings"

	"github.com/lshigami/StudyBuddy/internal/model"
	"gorm.io/gorm"
)

type FlashcardFilter struct {
	Topic  string
	UserID *uint
}

type FlashcardRepository interface {
	CreateBatch(ctx context.Context, cards []model.Flashcard) error
	FindByID(ctx context.Context, id uint) (*model.Flashcard, error)
	Find(ctx context.Context, filter FlashcardFilter) ([]model.Flashcard, error)
	FindByOwnerAndTopic(ctx context.Context, userID uint, topic string) ([]model.Flashcard, error)
	FindByOwner(ctx context.Context, userID uint) ([]model.Flashcard, error)
	FindAll(ctx context.Context) ([]model.Flashcard, error)
	Update(ctx context.Context, card *model.Flashcard) error
	Delete(ctx context.Context, id uint) error
	MarkReviewed(ctx context.Context, id uint) (bool, error)
}

type flashcardRepository struct {
	db *gorm.DB
}

func NewFlashcardRepository(db *gorm.DB) FlashcardRepository {
	return &flashcardRepository{db: db}
}

func (r *flashcardRepository) CreateBatch(ctx context.Context, cards []model.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cards).Error
}

func (r *flashcardRepository) FindByID(ctx context.Context, id uint) (*model.Flashcard, error) {
	var card model.Flashcard
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *flashcardRepository) Find(ctx context.Context, filter FlashcardFilter) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	q := r.db.WithContext(ctx).Model(&model.Flashcard{})
	if filter.Topic != "" {
		q = q.Where("LOWER(topic) LIKE ?", "%"+strings.ToLower(filter.Topic)+"%")
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	err := q.Order("created_at DESC").Find(&cards).Error
	return cards, err
}

// FindByOwnerAndTopic returns cards in creation order so derived quizzes are stable.
func (r *flashcardRepository) FindByOwnerAndTopic(ctx context.Context, userID uint, topic string) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic = ?", userID, topic).
		Order("id ASC").
		Find(&cards).Error
	return cards, err
}

func (r *flashcardRepository) FindByOwner(ctx context.Context, userID uint) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("topic ASC, id ASC").Find(&cards).Error
	return cards, err
}

func (r *flashcardRepository) FindAll(ctx context.Context) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.db.WithContext(ctx).Order("topic ASC, id ASC").Find(&cards).Error
	return cards, err
}

func (r *flashcardRepository) Update(ctx context.Context, card *model.Flashcard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *flashcardRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Flashcard{}, id).Error
}

// MarkReviewed flips reviewed only while it is false and reports whether the row changed.
func (r *flashcardRepository) MarkReviewed(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Flashcard{}).
		Where("id = ? AND reviewed = ?", id, false).
		Update("reviewed", true)
	return res.RowsAffected > 0, res.Error
}
