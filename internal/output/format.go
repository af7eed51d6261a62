// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskctl/internal/service"
)

// FormatTask formats a task line.
// Format: "{ID:>4}  [x] {TITLE}\n", with a blank mark for open tasks.
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4s  [%c] %s\n", task.ID, mark(task.Completed), normalizeTitle(task.Title))
}

// FormatTasks formats every task, or emptyMsg when there are none.
// An empty emptyMsg prints nothing for an empty list.
func FormatTasks(w io.Writer, tasks []service.Task, emptyMsg string) {
	if len(tasks) == 0 {
		if emptyMsg != "" {
			fmt.Fprintln(w, emptyMsg)
		}
		return
	}
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatTaskDetail formats a single task for the show command.
func FormatTaskDetail(w io.Writer, task service.Task) {
	status := "open"
	if task.Completed {
		status = "done"
	}
	fmt.Fprintf(w, "ID:      %s\n", task.ID)
	fmt.Fprintf(w, "Title:   %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Status:  %s\n", status)
}

func mark(completed bool) rune {
	if completed {
		return 'x'
	}
	return ' '
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
