// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"taskctl/internal/service"
)

// FakeGateway is an in-memory implementation of service.Gateway for testing.
// It behaves like the task API: ids are assigned sequentially from 1 and
// unknown ids fail with service.ErrNotFound.
type FakeGateway struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	calls  []string

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeGateway creates an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{nextID: 1}
}

// Seed adds a task server-side without going through the gateway contract.
func (f *FakeGateway) Seed(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(title, completed)
}

// ServerDelete removes a task server-side, as another client would.
func (f *FakeGateway) ServerDelete(id service.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexLocked(id); i >= 0 {
		f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	}
}

// ServerTasks returns the server-side task list.
func (f *FakeGateway) ServerTasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the gateway operations invoked so far, in order.
func (f *FakeGateway) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]string, len(f.calls))
	copy(result, f.calls)
	return result
}

// ListTasks implements service.Gateway.
func (f *FakeGateway) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("list")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.ServerTasks(), nil
}

// GetTask implements service.Gateway.
func (f *FakeGateway) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	f.record("get " + id.String())
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.indexLocked(id); i >= 0 {
		return f.tasks[i], nil
	}
	return service.Task{}, notFound("get task", id)
}

// CreateTask implements service.Gateway.
func (f *FakeGateway) CreateTask(ctx context.Context, title string, completed bool) (service.Task, error) {
	f.record("create")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if !service.ValidTitle(title) {
		return service.Task{}, service.NewError(service.KindValidation, "create task", "title is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(title, completed), nil
}

// UpdateTask implements service.Gateway.
func (f *FakeGateway) UpdateTask(ctx context.Context, id service.ID, patch service.Patch) (service.Task, error) {
	f.record("update " + id.String())
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, notFound("update task", id)
	}
	f.tasks[i] = patch.Apply(f.tasks[i])
	return f.tasks[i], nil
}

// DeleteTask implements service.Gateway.
func (f *FakeGateway) DeleteTask(ctx context.Context, id service.ID) error {
	f.record("delete " + id.String())
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return notFound("delete task", id)
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

func (f *FakeGateway) insertLocked(title string, completed bool) service.Task {
	t := service.Task{
		ID:        service.ID(strconv.Itoa(f.nextID)),
		Title:     title,
		Completed: completed,
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

func (f *FakeGateway) indexLocked(id service.ID) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func notFound(op string, id service.ID) error {
	return &service.Error{Kind: service.KindNotFound, Op: op + " " + id.String(), Status: 404}
}
