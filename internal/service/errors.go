package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the referenced attendee does not exist.
	ErrNotFound = errors.New("service: not found")
	// ErrConflict is returned when a write would break a uniqueness rule.
	ErrConflict = errors.New("service: conflict")

	ErrEmailTaken               = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrTokenTaken               = fmt.Errorf("%w: scan token already issued", ErrConflict)
	ErrReservedToken            = fmt.Errorf("%w: scan token is reserved", ErrConflict)
	ErrFeedbackAlreadySubmitted = fmt.Errorf("%w: feedback already submitted", ErrConflict)
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	Fields map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+v.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	v.Fields[field] = message
}

func (v *ValidationError) has(field string) bool {
	if v == nil {
		return false
	}
	_, ok := v.Fields[field]
	return ok
}

func (v *ValidationError) orNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}
