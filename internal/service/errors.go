package service

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
)

var (
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage error")
)

// ValidationError reports a missing or invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// storageError classifies a repository failure. The cause stays reachable
// through errors.Is/As but is never shown to API callers.
func storageError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
