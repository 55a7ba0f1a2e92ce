package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusBacklog    = "Backlog"
	TaskStatusToDo       = "ToDo"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"
)

var TaskStatuses = []string{TaskStatusBacklog, TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted}

type Task struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Status      string         `json:"status" gorm:"not null"`
	DueDate     time.Time      `json:"due_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
