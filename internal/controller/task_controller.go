package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/service"
)

type TaskController struct {
	taskService service.TaskService
}

func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

func (c *TaskController) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.POST("", c.CreateTask)
	tasks.GET("", c.ListTasks)
	tasks.PUT("/:task_id", c.UpdateTask)
	tasks.DELETE("/:task_id", c.DeleteTask)
}

// CreateTask godoc
// @Summary Create a to-do
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body dto.TaskCreateDTO true "Task"
// @Success 201 {object} dto.TaskResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing title or unknown status"
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.TaskCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	task, err := c.taskService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err, "Failed to create task")
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary The caller's to-dos
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TaskResponseDTO
// @Router /tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	tasks, err := c.taskService.List(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve tasks")
		return
	}
	ctx.JSON(http.StatusOK, tasks)
}

// UpdateTask godoc
// @Summary Update a to-do
// @Description Moving a task to Completed counts towards progress.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Param task body dto.TaskUpdateDTO true "Fields to change"
// @Success 200 {object} dto.TaskResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{task_id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "task_id")
	if !ok {
		return
	}
	var req dto.TaskUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	task, err := c.taskService.Update(ctx.Request.Context(), userID, id, req)
	if err != nil {
		respondError(ctx, err, "Failed to update task")
		return
	}
	ctx.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a to-do
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{task_id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "task_id")
	if !ok {
		return
	}
	if err := c.taskService.Delete(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err, "Failed to delete task")
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}
