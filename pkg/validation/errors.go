package validation

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Every FieldError unwraps to exactly one of these.
var (
	ErrRequired = errors.New("required")
	ErrFormat   = errors.New("invalid format")
	ErrLength   = errors.New("too short")
	ErrSize     = errors.New("file too large")
	ErrRange    = errors.New("out of range")
	ErrMinCount = errors.New("not enough entries")
)

// FieldError is a validation failure scoped to one field path.
type FieldError struct {
	Path    string `json:"path"`
	Kind    error  `json:"-"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Path + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Errors maps a field path (e.g. "techs.0.title") to its failure.
type Errors map[string]*FieldError

// Add records a failure for path. The first failure recorded for a path wins.
func (e Errors) Add(path string, kind error, message string) {
	if _, exists := e[path]; exists {
		return
	}
	e[path] = &FieldError{Path: path, Kind: kind, Message: message}
}

// Get returns the failure for path or nil.
func (e Errors) Get(path string) *FieldError {
	return e[path]
}

// Message returns the message for path, empty when the field is valid.
func (e Errors) Message(path string) string {
	if fe := e[path]; fe != nil {
		return fe.Message
	}
	return ""
}

// Messages flattens the errors into path -> message.
func (e Errors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for path, fe := range e {
		out[path] = fe.Message
	}
	return out
}

// Paths returns the failing paths in lexical order.
func (e Errors) Paths() []string {
	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, path := range e.Paths() {
		parts = append(parts, e[path].Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
