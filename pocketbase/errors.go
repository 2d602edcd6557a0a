package pocketbase

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel conditions matched by *Error through errors.Is.
var (
	ErrAlreadyExists = errors.New("pocketbase: already exists")
	ErrValidation    = errors.New("pocketbase: validation failed")
	ErrNotFound      = errors.New("pocketbase: not found")
	ErrUnauthorized  = errors.New("pocketbase: unauthorized")
)

// Field codes PocketBase reports when a unique name or value is taken.
var alreadyExistsCodes = map[string]bool{
	"validation_collection_name_exists": true,
	"validation_not_unique":             true,
}

// Error is returned by every Client operation. It carries either the
// transport failure (Cause) or the PocketBase error response.
type Error struct {
	Op      string
	URL     string
	Status  int
	Message string
	Data    map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pocketbase: %s: %v", e.Op, e.Cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("pocketbase: %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("pocketbase: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches one of the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAlreadyExists:
		return e.alreadyExists()
	case ErrValidation:
		return e.Status == http.StatusBadRequest
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// FieldCode returns the validation code PocketBase attached to field, if any.
func (e *Error) FieldCode(field string) string {
	detail, ok := e.Data[field].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := detail["code"].(string)
	return code
}

func (e *Error) alreadyExists() bool {
	if e.Status != http.StatusBadRequest {
		return false
	}
	for field := range e.Data {
		if alreadyExistsCodes[e.FieldCode(field)] {
			return true
		}
	}
	return false
}
