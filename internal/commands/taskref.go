package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"taskctl/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	ID       service.ID // server id, empty when Position is set
	Position int        // 1-based position in the listed snapshot, 0 if not used
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. "#<digits>" is a position in the list as printed by `list` (#1 is first)
//  2. Anything else is taken as a server-assigned task id
//  3. Exactly one reference is accepted
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok {
		if !isAllDigits(rest) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %s", arg)
		}
		return TaskRef{Position: n}, nil
	}

	return TaskRef{ID: service.ID(arg)}, nil
}

func (r TaskRef) String() string {
	if r.Position > 0 {
		return "#" + strconv.Itoa(r.Position)
	}
	return r.ID.String()
}

// isAllDigits returns true if s is non-empty and contains only ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
