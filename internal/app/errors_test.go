package app

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestInitError(t *testing.T) {
	cause := errors.New("no display")
	err := &InitError{Component: "backend", Err: cause}

	if err.Error() != "init backend: no display" {
		t.Errorf("Error() = '%s', expected 'init backend: no display'", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected InitError to unwrap to its cause")
	}
}

func TestComponentError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "component only",
			err:      &ComponentError{Component: "renderer"},
			expected: "renderer",
		},
		{
			name:     "component and action",
			err:      &ComponentError{Component: "renderer", Action: "render"},
			expected: "renderer: render",
		},
		{
			name:     "component and error",
			err:      &ComponentError{Component: "program", Err: errors.New("bad state")},
			expected: "program: bad state",
		},
		{
			name:     "full",
			err:      &ComponentError{Component: "renderer", Action: "render", Err: errors.New("out of memory")},
			expected: "renderer: render: out of memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestComponentError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewComponentError("renderer", "render", cause)

	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}

	var nilErr *ComponentError
	if nilErr.Unwrap() != nil {
		t.Error("expected nil Unwrap on nil error")
	}
}

func TestComponentError_Is(t *testing.T) {
	err := NewComponentError("renderer", "render", io.ErrUnexpectedEOF)

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected errors.Is to match the wrapped error")
	}
	if !errors.Is(err, err) {
		t.Error("expected errors.Is to match itself")
	}
	if errors.Is(err, NewComponentError("renderer", "render", io.ErrUnexpectedEOF)) {
		t.Error("expected distinct ComponentErrors not to match")
	}

	var nilErr *ComponentError
	if nilErr.Is(io.EOF) {
		t.Error("expected nil ComponentError not to match")
	}
}

func TestRecoveredPanicError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RecoveredPanicError
		expected string
	}{
		{"nil", nil, ""},
		{"value only", NewRecoveredPanicError("boom", ""), "panic: boom"},
		{"with stack", NewRecoveredPanicError(42, "goroutine 1"), "panic: 42\ngoroutine 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.HasErrors() {
		t.Error("expected empty list")
	}
	if list.AsError() != nil {
		t.Error("expected AsError to return nil for an empty list")
	}
	if list.Errors() != nil {
		t.Error("expected Errors to return nil for an empty list")
	}

	list.Add(nil)
	if list.Len() != 0 {
		t.Errorf("expected nil errors to be ignored, got %d", list.Len())
	}

	first := errors.New("first")
	list.Add(first)
	if list.Error() != "first" {
		t.Errorf("Error() = '%s', expected 'first'", list.Error())
	}

	list.Add(NewComponentError("program", "close", io.ErrClosedPipe))
	if list.Len() != 2 {
		t.Errorf("expected 2 errors, got %d", list.Len())
	}
	if !strings.HasPrefix(list.Error(), "2 errors") {
		t.Errorf("Error() = '%s', expected a count prefix", list.Error())
	}

	err := list.AsError()
	if !errors.Is(err, first) || !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected errors.Is to see every collected error")
	}
	var compErr *ComponentError
	if !errors.As(err, &compErr) || compErr.Action != "close" {
		t.Error("expected errors.As to find the ComponentError")
	}
}

func TestErrorList_ErrorsIsCopy(t *testing.T) {
	list := NewErrorList()
	list.Add(io.EOF)

	errs := list.Errors()
	errs[0] = nil

	if list.Errors()[0] != io.EOF {
		t.Error("expected Errors to return a copy")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{ErrAlreadyRunning, ErrNotRunning, ErrNoProgram, ErrNoBackend}
	for i, a := range sentinels {
		if a.Error() == "" {
			t.Errorf("sentinel %d has an empty message", i)
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinels %d and %d should be distinct", i, j)
			}
		}
	}
}
