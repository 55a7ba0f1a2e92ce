package repository

import (
	"context"

	"github.com/lshigami/StudyBuddy/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	FindByUser(ctx context.Context, userID uint) ([]model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByUser(ctx context.Context, userID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("taken_at DESC").Find(&submissions).Error
	return submissions, err
}
