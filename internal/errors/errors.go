package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("unavailable")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "card", "category", "color"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError indicates a resource already exists.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// CollaboratorError indicates an external capability (camera, barcode
// encoder, storage backend) failed. It is recoverable by design.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Helper constructors for common cases

func CardNotFound(idOrName string) error {
	return &NotFoundError{Resource: "card", ID: idOrName}
}

func CategoryNotFound(key string) error {
	return &NotFoundError{Resource: "category", ID: key}
}

func ColorNotFound(value string) error {
	return &NotFoundError{Resource: "color", ID: value}
}

func CardAlreadyExists(id string) error {
	return &AlreadyExistsError{Resource: "card", ID: id}
}

func CollectionAlreadyExists(slot string) error {
	return &AlreadyExistsError{Resource: "collection", ID: slot}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Unavailable(collaborator string, err error) error {
	return &CollaboratorError{Collaborator: collaborator, Err: err}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnavailable checks if an error is a collaborator failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
