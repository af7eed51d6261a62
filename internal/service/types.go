// Package service defines the backend-agnostic types and gateway contract for task operations.
package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque, server-assigned task identifier.
// Servers may send it as a JSON number or string; it is always kept as a string.
type ID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid task id: %s", b)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// Task represents a single task item.
type Task struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// WithTitle returns a copy of p that sets the title.
func (p Patch) WithTitle(title string) Patch {
	p.Title = &title
	return p
}

// WithCompleted returns a copy of p that sets the completion flag.
func (p Patch) WithCompleted(completed bool) Patch {
	p.Completed = &completed
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// IsFull reports whether every field is set.
func (p Patch) IsFull() bool {
	return p.Title != nil && p.Completed != nil
}

// Apply returns t with the patch applied. The id is never changed.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Fill returns a full patch, taking unset fields from t.
func (p Patch) Fill(t Task) Patch {
	t = p.Apply(t)
	return Patch{}.WithTitle(t.Title).WithCompleted(t.Completed)
}

// ValidTitle reports whether title is acceptable for a stored task.
func ValidTitle(title string) bool {
	return strings.TrimSpace(title) != ""
}
