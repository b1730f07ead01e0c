package models

import (
	"fmt"
	"strings"
)

// ValidationError reports field-level problems with an entity or request.
type ValidationError struct {
	Resource string
	Fields   map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid %s", e.Resource)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("invalid %s: %s", e.Resource, strings.Join(parts, "; "))
}

// Invalid builds a ValidationError for a single field.
func Invalid(resource, field, reason string) *ValidationError {
	return &ValidationError{
		Resource: resource,
		Fields:   map[string]string{field: reason},
	}
}

// InvalidTransitionError is returned when a swap status change is not allowed.
type InvalidTransitionError struct {
	From SwapStatus
	To   SwapStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move swap from %q to %q", e.From, e.To)
}

// EncodingError wraps a failure to serialize an encoded collection field.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
