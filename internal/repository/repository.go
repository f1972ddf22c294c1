package repository

import (
	"context"
	"errors"

	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/utils"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// FindByID finds a task by ID with its owner and assignee loaded
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// FindByOwnerOrAssignee lists tasks the user owns or is assigned to, newest first
	FindByOwnerOrAssignee(ctx context.Context, userID string, page utils.PaginationParams) ([]models.Task, int64, error)

	// Insert stores a new task
	Insert(ctx context.Context, task *models.Task) (*models.Task, error)

	// Update applies a patch and returns the stored task
	Update(ctx context.Context, id string, patch lifecycle.Patch) (*models.Task, error)

	// Delete permanently removes a task
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns all users ordered by name
	List(ctx context.Context) ([]models.User, error)
}
