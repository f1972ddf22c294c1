// Package lifecycle holds the rules deciding who may create, read, update and
// delete a task, and which derived fields each mutation sets. Nothing in this
// package performs I/O.
package lifecycle

import "github.com/tasktrack/tasktrack-api/internal/models"

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize returns nil when actor may perform action on task, and an
// *AuthorizationError otherwise. Unknown actions are denied.
func Authorize(actor Actor, task *models.Task, action Action) error {
	isOwner := actor.ID != "" && task.OwnerID == actor.ID

	switch action {
	case ActionRead:
		if isOwner || task.IsAssignedTo(actor.ID) || actor.IsAdmin() {
			return nil
		}
		return deny(actor, action, "not authorized to access")
	case ActionUpdate, ActionDelete:
		// Assignees can read a task but never modify or remove it.
		if isOwner || actor.IsAdmin() {
			return nil
		}
		return deny(actor, action, "not authorized to "+string(action))
	default:
		return deny(actor, action, "not allowed to perform unknown action "+string(action)+" on")
	}
}

func deny(actor Actor, action Action, reason string) *AuthorizationError {
	return &AuthorizationError{
		ActorID: actor.ID,
		Action:  action,
		Reason:  reason,
	}
}
