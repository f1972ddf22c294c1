package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack-api/internal/dto"
	apierrors "github.com/tasktrack/tasktrack-api/internal/errors"
	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/middleware"
	"github.com/tasktrack/tasktrack-api/internal/services"
	"github.com/tasktrack/tasktrack-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks the current user owns or is assigned to
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), actor, params)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), actor, middleware.GetTaskID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.ToTaskDTO(*task),
	})
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Completed   *bool   `json:"completed"`
		AssignedTo  *string `json:"assignedTo"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, lifecycle.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
		AssignedTo  *string `json:"assignedTo"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, middleware.GetTaskID(c), lifecycle.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask permanently removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, middleware.GetTaskID(c)); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

func requireActor(c *gin.Context) (lifecycle.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
	}
	return actor, ok
}

func respondTaskError(c *gin.Context, err error) {
	var (
		validationErr *lifecycle.ValidationError
		authErr       *lifecycle.AuthorizationError
		notFoundErr   *lifecycle.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		apierrors.InvalidField(c, validationErr.Field, validationErr.Message)
	case errors.As(err, &authErr):
		apierrors.Forbidden(c, authErr.Error())
	case errors.As(err, &notFoundErr):
		apierrors.NotFound(c, notFoundErr.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "task request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		apierrors.InternalError(c, "")
	}
}
