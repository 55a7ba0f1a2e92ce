package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTaskRepo struct {
	tasks  map[uint]*model.Task
	nextID uint
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[uint]*model.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *model.Task) error {
	r.nextID++
	task.ID = r.nextID
	c := *task
	r.tasks[task.ID] = &c
	return nil
}

func (r *fakeTaskRepo) FindByIDForUser(_ context.Context, id, userID uint) (*model.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTaskRepo) FindByUser(_ context.Context, userID uint) ([]model.Task, error) {
	var out []model.Task
	for id := uint(1); id <= r.nextID; id++ {
		if t, ok := r.tasks[id]; ok && t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *model.Task) error {
	c := *task
	r.tasks[task.ID] = &c
	return nil
}

func (r *fakeTaskRepo) DeleteForUser(_ context.Context, id, userID uint) (bool, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func strPtr(s string) *string { return &s }

func TestTaskCompletionCountsOnce(t *testing.T) {
	progress := &recordingProgress{}
	svc := NewTaskService(newFakeTaskRepo(), progress)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, dto.TaskCreateDTO{Title: "Read", Status: model.TaskStatusToDo})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), created.DueDate, time.Minute, "due date defaults to now")

	_, err = svc.Update(ctx, 1, created.ID, dto.TaskUpdateDTO{Status: strPtr(model.TaskStatusCompleted)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, created.ID, dto.TaskUpdateDTO{Title: strPtr("Read again")})
	require.NoError(t, err)

	assert.Equal(t, 1, progress.tasksCompleted)
}

func TestTaskCreatedCompleted(t *testing.T) {
	progress := &recordingProgress{}
	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)

	task, err := NewTaskService(newFakeTaskRepo(), progress).
		Create(context.Background(), 1, dto.TaskCreateDTO{Title: "Done", Status: model.TaskStatusCompleted, DueDate: &due})

	require.NoError(t, err)
	assert.Equal(t, due, task.DueDate)
	assert.Equal(t, 1, progress.tasksCompleted)
}

func TestTasksAreScopedToCaller(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), &recordingProgress{})
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, dto.TaskCreateDTO{Title: "Mine", Status: model.TaskStatusBacklog})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 2, task.ID, dto.TaskUpdateDTO{Title: strPtr("theirs")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 2, task.ID), ErrNotFound)

	others, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, others)

	require.NoError(t, svc.Delete(ctx, 1, task.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, task.ID), ErrNotFound)
}
