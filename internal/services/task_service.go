package services

import (
	"context"
	"errors"

	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/repository"
	"github.com/tasktrack/tasktrack-api/internal/utils"
)

// TaskService applies lifecycle decisions to the task store.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	rules    *lifecycle.Rules
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, rules *lifecycle.Rules) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		rules:    rules,
	}
}

// ListTasks returns the tasks the actor owns or is assigned to.
func (s *TaskService) ListTasks(ctx context.Context, actor lifecycle.Actor, page utils.PaginationParams) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.FindByOwnerOrAssignee(ctx, actor.ID, page)
	if err != nil {
		return nil, 0, &lifecycle.StoreError{Op: "list tasks", Err: err}
	}
	return tasks, total, nil
}

// GetTask returns a task the actor may read. The assignee's first read
// persists the notification flag, and the returned task reflects it.
func (s *TaskService) GetTask(ctx context.Context, actor lifecycle.Actor, taskID string) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	patch, err := s.rules.PrepareRead(actor, task)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return task, nil
	}

	return s.applyPatch(ctx, taskID, *patch)
}

// CreateTask creates a task owned by the actor.
func (s *TaskService) CreateTask(ctx context.Context, actor lifecycle.Actor, input lifecycle.CreateInput) (*models.Task, error) {
	task, err := s.rules.PrepareCreate(actor, input)
	if err != nil {
		return nil, err
	}

	if task.AssigneeID != nil {
		if err := s.ensureAssigneeExists(ctx, *task.AssigneeID); err != nil {
			return nil, err
		}
	}

	created, err := s.taskRepo.Insert(ctx, task)
	if err != nil {
		return nil, &lifecycle.StoreError{Op: "insert task", Err: err}
	}
	return created, nil
}

// UpdateTask applies a partial update to a task.
func (s *TaskService) UpdateTask(ctx context.Context, actor lifecycle.Actor, taskID string, input lifecycle.UpdateInput) (*models.Task, error) {
	existing, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	patch, err := s.rules.PrepareUpdate(actor, existing, input)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	if patch.AssigneeID != nil {
		if err := s.ensureAssigneeExists(ctx, *patch.AssigneeID); err != nil {
			return nil, err
		}
	}

	return s.applyPatch(ctx, taskID, patch)
}

// DeleteTask permanently removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, actor lifecycle.Actor, taskID string) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.rules.PrepareDelete(actor, task); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &lifecycle.NotFoundError{ID: taskID}
		}
		return &lifecycle.StoreError{Op: "delete task", Err: err}
	}
	return nil
}

func (s *TaskService) findTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &lifecycle.NotFoundError{ID: taskID}
		}
		return nil, &lifecycle.StoreError{Op: "find task", Err: err}
	}
	return task, nil
}

func (s *TaskService) applyPatch(ctx context.Context, taskID string, patch lifecycle.Patch) (*models.Task, error) {
	task, err := s.taskRepo.Update(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &lifecycle.NotFoundError{ID: taskID}
		}
		return nil, &lifecycle.StoreError{Op: "update task", Err: err}
	}
	return task, nil
}

// ensureAssigneeExists rejects assignment to an unknown user.
func (s *TaskService) ensureAssigneeExists(ctx context.Context, userID string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &lifecycle.ValidationError{Field: "assignedTo", Message: "assigned user does not exist"}
		}
		return &lifecycle.StoreError{Op: "find assignee", Err: err}
	}
	return nil
}
