package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrValidation       = errors.New("validation error")
	ErrStoreUnavailable = errors.New("donor store unavailable")
	ErrDelivery         = errors.New("delivery error")

	ErrEmailUnsupported  = errors.New("email column missing in dataset, cannot notify")
	ErrNoRecipients      = errors.New("no valid emails found for selected donors")
	ErrMailNotConfigured = fmt.Errorf("%w: email not configured", ErrConfiguration)
)

// SchemaError reports canonical fields that no source header could satisfy.
type SchemaError struct {
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %v. found: %v", e.Missing, e.Available)
}

func (e *SchemaError) Unwrap() error {
	return ErrConfiguration
}

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send email: %v", e.Cause)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{ErrDelivery, e.Cause}
}
