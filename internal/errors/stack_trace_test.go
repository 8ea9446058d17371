package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-earl/internal/lexer"
)

func TestStackFrame_String(t *testing.T) {
	tests := []struct {
		name     string
		frame    StackFrame
		expected string
	}{
		{
			name: "frame with position",
			frame: StackFrame{
				FunctionName: "fact",
				FileName:     "test.earl",
				Position:     &lexer.Position{Line: 10, Column: 5},
			},
			expected: "fact [line: 10, column: 5]",
		},
		{
			name: "frame without position",
			frame: StackFrame{
				FunctionName: "fact",
				FileName:     "test.earl",
			},
			expected: "fact",
		},
		{
			name: "method frame",
			frame: StackFrame{
				FunctionName: "Point.sum",
				FileName:     "test.earl",
				Position:     &lexer.Position{Line: 42, Column: 15},
			},
			expected: "Point.sum [line: 42, column: 15]",
		},
		{
			name: "closure frame",
			frame: StackFrame{
				FunctionName: "<closure>",
				Position:     &lexer.Position{Line: 7, Column: 1},
			},
			expected: "<closure> [line: 7, column: 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStackTrace_StringEmpty(t *testing.T) {
	if got := (StackTrace{}).String(); got != "" {
		t.Errorf("empty trace String() = %q, want \"\"", got)
	}
}

func TestStackTrace_StringInnermostFirst(t *testing.T) {
	// The rendered trace lists the innermost (most recent) frame first,
	// one frame per line.
	trace := StackTrace{
		{FunctionName: "callsABomb", Position: &lexer.Position{Line: 8, Column: 4}},
		{FunctionName: "thisOneBombs", Position: &lexer.Position{Line: 3, Column: 20}},
	}

	lines := strings.Split(trace.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "thisOneBombs [line: 3, column: 20]" {
		t.Errorf("first line = %q, want innermost frame first", lines[0])
	}
	if lines[1] != "callsABomb [line: 8, column: 4]" {
		t.Errorf("second line = %q, want caller frame second", lines[1])
	}
}

func TestNewStackFrame(t *testing.T) {
	pos := &lexer.Position{Line: 12, Column: 3}
	frame := NewStackFrame("main", "main.earl", pos)
	if frame.FunctionName != "main" {
		t.Errorf("FunctionName = %q, want %q", frame.FunctionName, "main")
	}
	if frame.FileName != "main.earl" {
		t.Errorf("FileName = %q, want %q", frame.FileName, "main.earl")
	}
	if frame.Position != pos {
		t.Errorf("Position = %v, want %v", frame.Position, pos)
	}
}
