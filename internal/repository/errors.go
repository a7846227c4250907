package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("repository: duplicate key")

// DuplicateError names the field whose unique index rejected a write.
// errors.Is(err, ErrDuplicate) holds for every DuplicateError.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return ErrDuplicate.Error()
	}
	return "repository: duplicate " + e.Field
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// duplicateFrom converts a mongo duplicate key error into a DuplicateError,
// using indexFields to map index names to field names. Other errors pass through.
func duplicateFrom(err error, indexFields map[string]string) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	for index, field := range indexFields {
		if strings.Contains(msg, index) {
			return &DuplicateError{Field: field}
		}
	}
	return &DuplicateError{}
}
