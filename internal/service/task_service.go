package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TaskService interface {
	Create(ctx context.Context, userID uint, req dto.TaskCreateDTO) (*dto.TaskResponseDTO, error)
	List(ctx context.Context, userID uint) ([]dto.TaskResponseDTO, error)
	Update(ctx context.Context, userID, id uint, req dto.TaskUpdateDTO) (*dto.TaskResponseDTO, error)
	Delete(ctx context.Context, userID, id uint) error
}

type taskService struct {
	repo     repository.TaskRepository
	progress ProgressService
}

func NewTaskService(repo repository.TaskRepository, progress ProgressService) TaskService {
	return &taskService{repo: repo, progress: progress}
}

func (s *taskService) Create(ctx context.Context, userID uint, req dto.TaskCreateDTO) (*dto.TaskResponseDTO, error) {
	task := &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     time.Now(),
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if err := s.repo.Create(ctx, task); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Create task: repository error")
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if task.Status == model.TaskStatusCompleted {
		s.recordCompleted(ctx, userID)
	}
	return toTaskResponse(task)
}

func (s *taskService) List(ctx context.Context, userID uint) ([]dto.TaskResponseDTO, error) {
	tasks, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("List tasks: repository error")
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	out := make([]dto.TaskResponseDTO, 0, len(tasks))
	if err := copier.Copy(&out, &tasks); err != nil {
		return nil, fmt.Errorf("failed to map tasks: %w", err)
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, userID, id uint, req dto.TaskUpdateDTO) (*dto.TaskResponseDTO, error) {
	task, err := s.repo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	wasCompleted := task.Status == model.TaskStatusCompleted
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}

	if err := s.repo.Update(ctx, task); err != nil {
		log.Error().Err(err).Uint("taskID", id).Msg("Update task: repository error")
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if !wasCompleted && task.Status == model.TaskStatusCompleted {
		s.recordCompleted(ctx, userID)
	}
	return toTaskResponse(task)
}

func (s *taskService) Delete(ctx context.Context, userID, id uint) error {
	deleted, err := s.repo.DeleteForUser(ctx, id, userID)
	if err != nil {
		log.Error().Err(err).Uint("taskID", id).Msg("Delete task: repository error")
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *taskService) recordCompleted(ctx context.Context, userID uint) {
	if err := s.progress.RecordTaskCompleted(ctx, userID); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Task progress update failed")
	}
}

func toTaskResponse(task *model.Task) (*dto.TaskResponseDTO, error) {
	var resp dto.TaskResponseDTO
	if err := copier.Copy(&resp, task); err != nil {
		return nil, fmt.Errorf("failed to map task: %w", err)
	}
	return &resp, nil
}
