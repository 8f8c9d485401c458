package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound signals a lookup that matched no row.
var ErrNotFound = errors.New("record not found")

// ErrNoUpdateFields signals an update whose payload contained no allowed
// fields after projection. Returned instead of a silent no-op.
var ErrNoUpdateFields = errors.New("no valid update fields provided")

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError wraps a database integrity violation (unique constraint or
// foreign key). Detail carries the constraint diagnostic for the response.
type ConflictError struct {
	Constraint string
	Detail     string
}

func (e *ConflictError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("integrity constraint violated: %s", e.Constraint)
}
