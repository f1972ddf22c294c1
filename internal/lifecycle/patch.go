package lifecycle

import (
	"time"

	"github.com/tasktrack/tasktrack-api/internal/models"
)

// Patch is a partial set of field changes for an existing task. Nil fields
// are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	AssigneeID  *string
	AssignedAt  *time.Time
	IsNotified  *bool
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Completed == nil &&
		p.AssigneeID == nil &&
		p.AssignedAt == nil &&
		p.IsNotified == nil
}

// Apply writes the patch's fields onto t.
func (p Patch) Apply(t *models.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.AssigneeID != nil {
		assignee := *p.AssigneeID
		t.AssigneeID = &assignee
	}
	if p.AssignedAt != nil {
		assignedAt := *p.AssignedAt
		t.AssignedAt = &assignedAt
	}
	if p.IsNotified != nil {
		t.IsNotified = *p.IsNotified
	}
}
