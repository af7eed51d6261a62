package commands

import (
	"testing"
)

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "5" {
		t.Errorf("expected ID %q, got %q", "5", ref.ID)
	}
	if ref.Position != 0 {
		t.Errorf("expected no position, got %d", ref.Position)
	}
}

func TestParseTaskRef_OpaqueID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"MTIzNDU2Nzg5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "MTIzNDU2Nzg5" {
		t.Errorf("expected opaque id, got %q", ref.ID)
	}
}

func TestParseTaskRef_Position(t *testing.T) {
	ref, err := ParseTaskRef([]string{"#12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Position != 12 {
		t.Errorf("expected Position 12, got %d", ref.Position)
	}
	if ref.ID != "" {
		t.Errorf("expected empty ID, got %q", ref.ID)
	}
	if ref.String() != "#12" {
		t.Errorf("expected %q, got %q", "#12", ref.String())
	}
}

func TestParseTaskRef_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"#"}, "invalid task reference: #"},
		{[]string{"#a1"}, "invalid task reference: #a1"},
		{[]string{"#0"}, "task number out of range: #0"},
		{[]string{"1", "2"}, "unexpected argument: 2"},
	}
	for _, tt := range tests {
		_, err := ParseTaskRef(tt.args)
		if err == nil {
			t.Errorf("expected error for %v", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("expected %q, got %q", tt.want, err.Error())
		}
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	for _, args := range [][]string{nil, {"  "}} {
		_, err := ParseTaskRef(args)
		if err != ErrTaskRefRequired {
			t.Errorf("expected ErrTaskRefRequired for %q, got %v", args, err)
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{"-1", false},
	}
	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
