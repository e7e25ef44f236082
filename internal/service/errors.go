package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when a shopping list is requested for an
	// empty cart. It is a user-visible condition, not a bug.
	ErrEmptyCart = errors.New("shopping cart is empty")

	// ErrSelfSubscribe is returned when a user subscribes to themselves.
	ErrSelfSubscribe = errors.New("cannot subscribe to yourself")

	// ErrLinkNotFound is returned when a short code is unknown.
	ErrLinkNotFound = errors.New("short link not found")

	// ErrNotRecipeAuthor is returned when a write targets someone else's recipe.
	ErrNotRecipeAuthor = errors.New("only the author may modify this recipe")
)

// FieldError reports a validation failure scoped to a single request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError builds a FieldError for the given field.
func NewFieldError(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to a row that does not exist. Message,
// when set, overrides the generated wording.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a duplicate row where uniqueness is required.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
