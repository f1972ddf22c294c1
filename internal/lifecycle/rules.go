package lifecycle

import (
	"strings"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/models"
)

// Rules applies the task lifecycle. The clock is injected so that derived
// timestamps are deterministic under test.
type Rules struct {
	now func() time.Time
}

// NewRules creates Rules using now as the clock; nil means time.Now.
func NewRules(now func() time.Time) *Rules {
	if now == nil {
		now = time.Now
	}
	return &Rules{now: now}
}

// CreateInput is the caller-supplied content of a new task.
type CreateInput struct {
	Title       string
	Description string
	Completed   *bool
	AssignedTo  *string
}

// UpdateInput is a partial update; nil fields are not changed.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
	AssignedTo  *string
}

// PrepareCreate validates input and builds the task owned by actor.
// AssignedTo is honored only for admins.
func (r *Rules) PrepareCreate(actor Actor, in CreateInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if err := validateFields(title, description); err != nil {
		return nil, err
	}

	now := r.now()
	task := &models.Task{
		Title:       title,
		Description: description,
		OwnerID:     actor.ID,
		IsNotified:  false,
		CreatedAt:   now,
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}

	if assignee, ok := assigneeFrom(in.AssignedTo); ok && actor.IsAdmin() {
		task.AssigneeID = &assignee
		task.AssignedAt = &now
	}

	return task, nil
}

// PrepareUpdate authorizes the update and returns the patch to persist.
func (r *Rules) PrepareUpdate(actor Actor, existing *models.Task, in UpdateInput) (Patch, error) {
	if err := Authorize(actor, existing, ActionUpdate); err != nil {
		return Patch{}, err
	}

	var patch Patch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		patch.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		patch.Description = &description
	}
	if in.Completed != nil {
		completed := *in.Completed
		patch.Completed = &completed
	}

	if assignee, ok := assigneeFrom(in.AssignedTo); ok && actor.IsAdmin() && !existing.IsAssignedTo(assignee) {
		patch.AssigneeID = &assignee
		// assignedAt records the first assignment only.
		if !existing.IsAssigned() && existing.AssignedAt == nil {
			now := r.now()
			patch.AssignedAt = &now
		}
	}

	merged := *existing
	patch.Apply(&merged)
	if err := validateFields(merged.Title, merged.Description); err != nil {
		return Patch{}, err
	}

	return patch, nil
}

// PrepareRead authorizes the read. When the assignee reads the task for the
// first time it also returns the patch marking the task as notified; the
// patch is nil otherwise.
func (r *Rules) PrepareRead(actor Actor, task *models.Task) (*Patch, error) {
	if err := Authorize(actor, task, ActionRead); err != nil {
		return nil, err
	}

	if task.IsNotified || !task.IsAssignedTo(actor.ID) {
		return nil, nil
	}

	notified := true
	return &Patch{IsNotified: &notified}, nil
}

// PrepareDelete authorizes deletion of task by actor.
func (r *Rules) PrepareDelete(actor Actor, task *models.Task) error {
	return Authorize(actor, task, ActionDelete)
}

// assigneeFrom treats a missing or blank assignee as absent.
func assigneeFrom(assignedTo *string) (string, bool) {
	if assignedTo == nil {
		return "", false
	}
	assignee := strings.TrimSpace(*assignedTo)
	return assignee, assignee != ""
}
