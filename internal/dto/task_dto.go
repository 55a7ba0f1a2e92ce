package dto

import "time"

type TaskCreateDTO struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"required,taskstatus"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskUpdateDTO struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,taskstatus"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskResponseDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
