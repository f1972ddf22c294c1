package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tasktrack/tasktrack-api/internal/database"
	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Owner").Preload("Assignee")
}

// FindByID finds a task by ID with its owner and assignee loaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.withRelations(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByOwnerOrAssignee lists tasks the user owns or is assigned to, newest first
func (r *GormTaskRepository) FindByOwnerOrAssignee(ctx context.Context, userID string, page utils.PaginationParams) ([]models.Task, int64, error) {
	visible := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Task{}).Where("owner_id = ? OR assignee_id = ?", userID, userID)
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(visible).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks := []models.Task{}
	if err := r.withRelations(ctx).
		Scopes(visible, database.NewestFirst, database.Paginate(page)).
		Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Insert stores a new task
func (r *GormTaskRepository) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return r.FindByID(ctx, task.ID)
}

// Update applies a patch and returns the stored task
func (r *GormTaskRepository) Update(ctx context.Context, id string, patch lifecycle.Patch) (*models.Task, error) {
	if columns := patchColumns(patch); len(columns) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Task{}).
			Where("id = ?", id).
			Updates(columns).Error; err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}
	return r.FindByID(ctx, id)
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func patchColumns(patch lifecycle.Patch) map[string]any {
	columns := make(map[string]any)
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Completed != nil {
		columns["completed"] = *patch.Completed
	}
	if patch.AssigneeID != nil {
		columns["assignee_id"] = *patch.AssigneeID
	}
	if patch.AssignedAt != nil {
		columns["assigned_at"] = *patch.AssignedAt
	}
	if patch.IsNotified != nil {
		columns["is_notified"] = *patch.IsNotified
	}
	return columns
}
