package lifecycle

import "fmt"

// ValidationError reports the first task field that violates its constraints.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthorizationError reports that an actor may not perform an action on a task.
type AuthorizationError struct {
	ActorID string
	Action  Action
	Reason  string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is %s this task", e.ActorID, e.Reason)
}

// NotFoundError reports that no task exists with the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task with the id of %s", e.ID)
}

// StoreError wraps a failure of the task or user store. It is never retried here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
