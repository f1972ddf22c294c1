package dto

import (
	"time"

	"github.com/tasktrack/tasktrack-api/internal/models"
)

// UserRefDTO is the public view of a user embedded in a task
type UserRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Completed   bool        `json:"completed"`
	Owner       *UserRefDTO `json:"owner"`
	AssignedTo  *UserRefDTO `json:"assignedTo"`
	IsNotified  bool        `json:"isNotified"`
	AssignedAt  *time.Time  `json:"assignedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Pagination describes the page returned by a list endpoint
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Data       []TaskDTO  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func toUserRef(id string, user *models.User) *UserRefDTO {
	ref := &UserRefDTO{ID: id}
	// Name is only known when the relation was preloaded
	if user != nil && user.ID == id {
		ref.Name = user.Name
	}
	return ref
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Owner:       toUserRef(task.OwnerID, &task.Owner),
		IsNotified:  task.IsNotified,
		AssignedAt:  task.AssignedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.AssigneeID != nil {
		dto.AssignedTo = toUserRef(*task.AssigneeID, task.Assignee)
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, limit int, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Success: true,
		Count:   len(items),
		Data:    items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
