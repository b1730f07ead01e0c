package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError is returned when the requested row does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NotFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UniquenessViolation is returned when a write collides with a unique
// index (username, email, or the recipe/reviewer pair). Field is empty when
// the database did not say which index fired.
type UniquenessViolation struct {
	Resource string
	Field    string
}

func (e *UniquenessViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s already exists", e.Resource)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
}

func Duplicate(resource, field string) *UniquenessViolation {
	return &UniquenessViolation{Resource: resource, Field: field}
}

// translate maps gorm errors onto the repository error types. The gorm
// session must be opened with TranslateError enabled.
func translate(err error, resource string, id uint, uniqueField string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Duplicate(resource, uniqueField)
	default:
		return err
	}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsDuplicate(err error) bool {
	var dup *UniquenessViolation
	return errors.As(err, &dup)
}
