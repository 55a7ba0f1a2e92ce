package repository

import (
	"context"

	"github.com/lshigami/StudyBuddy/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error)
	FindByCreatorWithSubmissions(ctx context.Context, userID uint) ([]model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// Create inserts the quiz and its questions in one transaction.
func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

func (r *quizRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByCreatorWithSubmissions(ctx context.Context, userID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("submissions.taken_at DESC")
		}).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}
