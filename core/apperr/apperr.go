package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	// KindNotFound indicates a referenced entity is absent.
	KindNotFound Kind = "not_found"
	// KindConflict indicates a uniqueness or duplicate violation.
	KindConflict Kind = "conflict"
	// KindValidation indicates malformed or missing input.
	KindValidation Kind = "validation"
)

// Error is a typed application error carrying its kind and context.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Entity names the affected entity type (e.g. "category", "judge").
	Entity string
	// Message is the human-readable detail.
	Message string
}

func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NotFound creates a NotFound error for the given entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf("%q not found", id)}
}

// Conflict creates a Conflict error for the given entity.
func Conflict(entity, detail string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: detail}
}

// Validation creates a Validation error for the given input field.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Message: detail}
}

// KindOf extracts the kind of an error, or "" if it is not an application error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NotFound application error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a Conflict application error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsValidation reports whether err is a Validation application error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// HTTPStatus maps an error to the status code handlers should respond with.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindValidation:
		return 400
	default:
		return 500
	}
}
