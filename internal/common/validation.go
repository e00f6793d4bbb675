package common

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects per-field messages for role-specific profile data
// that failed validation. It is a domain error: the provisioning workflow
// rolls back the account when a profile builder returns one.
type ValidationError struct {
	fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string]string)}
}

// Add records a message for the given field, keeping the first message when
// a field is reported twice.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.fields) > 0
}

// Messages returns "field: message" lines in a stable order.
func (e *ValidationError) Messages() []string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", k, e.fields[k]))
	}
	return out
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// RequestError marks a request rejected before any write occurred
// (malformed or missing required input).
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}
