package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskctl/internal/exitcode"
	"taskctl/internal/service"
	"taskctl/internal/store"
)

// usageError is a problem with the command line itself.
type usageError string

func (e usageError) Error() string { return string(e) }

// resolveID turns a reference into a task id. Positions are looked up in the
// snapshot, refreshing it first if it is empty.
func resolveID(ctx context.Context, st *store.Store, ref TaskRef) (service.ID, error) {
	if ref.Position == 0 {
		return ref.ID, nil
	}
	if st.Len() == 0 {
		if _, err := st.Refresh(ctx); err != nil {
			return "", err
		}
	}
	tasks := st.Tasks()
	if ref.Position > len(tasks) {
		return "", usageError(fmt.Sprintf("task number out of range: %d", ref.Position))
	}
	return tasks[ref.Position-1].ID, nil
}

// resolveTask returns the current state of the referenced task, from the
// snapshot when it holds the task and from the server otherwise.
func resolveTask(ctx context.Context, st *store.Store, ref TaskRef) (service.Task, error) {
	id, err := resolveID(ctx, st, ref)
	if err != nil {
		return service.Task{}, err
	}
	if t, ok := st.Get(id); ok {
		return t, nil
	}
	return st.View(ctx, id)
}

// parseRef parses args and prints the usage problem, if any.
func parseRef(args []string, errOut io.Writer) (TaskRef, bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return TaskRef{}, false
	}
	return ref, true
}

// report prints err and returns the matching exit code.
func report(errOut io.Writer, err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(errOut, "error: %s\n", ue)
		return exitcode.UserError
	}

	code := exitcode.For(err)
	if code == exitcode.AuthError {
		fmt.Fprintf(errOut, "error: %v (run: taskctl login)\n", err)
		return code
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return code
}
