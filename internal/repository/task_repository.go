package repository

import (
	"context"

	"github.com/lshigami/StudyBuddy/internal/model"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	DeleteForUser(ctx context.Context, id, userID uint) (bool, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("due_date ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) DeleteForUser(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{})
	return res.RowsAffected > 0, res.Error
}
