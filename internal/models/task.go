package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a unit of work owned by the user who created it and optionally
// assigned by an admin to another user.
type Task struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	OwnerID     string     `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	AssigneeID  *string    `gorm:"type:varchar(36);index" json:"assigneeId"`
	IsNotified  bool       `gorm:"not null;default:false" json:"isNotified"`
	AssignedAt  *time.Time `json:"assignedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations
	Owner    User  `gorm:"foreignKey:OwnerID" json:"-"`
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsAssigned reports whether the task currently has an assignee.
func (t *Task) IsAssigned() bool {
	return t.AssigneeID != nil && *t.AssigneeID != ""
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.IsAssigned() && *t.AssigneeID == userID
}
