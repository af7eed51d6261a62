// Package service defines the backend-agnostic types and gateway contract for task operations.
package service

import "context"

// Gateway is the only component allowed to talk to the remote task API.
// Implementations attach the session credential to every call, never retry,
// and report failures as *Error values of the matching Kind.
type Gateway interface {
	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns one task. Fails with ErrNotFound if the id is unknown.
	GetTask(ctx context.Context, id ID) (Task, error)

	// CreateTask creates a task and returns it with its server-assigned id.
	CreateTask(ctx context.Context, title string, completed bool) (Task, error)

	// UpdateTask applies patch to the task and returns the server's copy.
	UpdateTask(ctx context.Context, id ID, patch Patch) (Task, error)

	// DeleteTask deletes a task. Deleting an unknown id fails with ErrNotFound.
	DeleteTask(ctx context.Context, id ID) error
}

// Authenticator exchanges user credentials with the API.
// Calls are unauthenticated.
type Authenticator interface {
	// Login returns a session token for the user.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates a user account.
	Register(ctx context.Context, username, password string) error
}
