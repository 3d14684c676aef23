package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryDOM      Category = "dom"
	CategoryProtocol Category = "protocol"
	CategoryRouting  Category = "routing"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location represents a source location, usually a config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// FuseError is a structured error with a code, suggestions, and documentation.
type FuseError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, dom, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where the error occurred, if it is tied to a file.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FuseError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FuseError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a FuseError with the same code.
func (e *FuseError) Is(target error) bool {
	t, ok := target.(*FuseError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation attaches a file location to the error.
func (e *FuseError) WithLocation(file string, line, column int) *FuseError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FuseError) WithSuggestion(s string) *FuseError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *FuseError) WithDetail(d string) *FuseError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FuseError) Wrap(err error) *FuseError {
	e.Wrapped = err
	return e
}

// New creates a FuseError from a registered error code.
func New(code string) *FuseError {
	template, ok := GetTemplate(code)
	if !ok {
		return &FuseError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FuseError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new FuseError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FuseError {
	return &FuseError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FuseError.
func FromError(err error, code string) *FuseError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FuseError); ok {
		return fe
	}
	return New(code).Wrap(err)
}

// FromPanic converts a recovered panic value into a coded error.
// Panics carrying an error are wrapped so errors.Is still sees them.
func FromPanic(code string, recovered any) *FuseError {
	if err, ok := recovered.(error); ok {
		return New(code).Wrap(err)
	}
	return New(code).Wrap(fmt.Errorf("%v", recovered))
}
