package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxDepthExceeded is returned when subtest nesting goes deeper than the configured limit.
	ErrMaxDepthExceeded = errors.New("maximum subtest nesting depth exceeded")
	// ErrUnterminatedDiagnostics is returned in strict mode when a YAML block has no closing "...".
	ErrUnterminatedDiagnostics = errors.New("unterminated diagnostics block")
	// ErrInvalidDiagnostics is returned in strict mode when a YAML block cannot be decoded.
	ErrInvalidDiagnostics = errors.New("invalid diagnostics block")
)

// TAPError is the base error type with context.
type TAPError struct {
	Phase      string // "config", "scan", "parse", "render", "write"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *TAPError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *TAPError) Unwrap() error {
	return e.Cause
}

// NewError creates a new TAPError.
func NewError(phase, file string, line int, message string, cause error) *TAPError {
	return &TAPError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a TAPError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *TAPError {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}
