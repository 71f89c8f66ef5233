package errors

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks a record store transport or availability failure.
// Query paths surface it without retry; retry policy belongs to the caller.
var ErrStoreUnavailable = errors.New("record store unavailable")

// StoreUnavailable wraps a driver-level error so callers can match it with
// errors.Is(err, ErrStoreUnavailable) while keeping the original cause visible.
func StoreUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// ValidationErrorKind distinguishes the two ways a raw record field can fail.
type ValidationErrorKind string

const (
	KindMissingField ValidationErrorKind = "missing_field"
	KindWrongType    ValidationErrorKind = "wrong_type"
)

// ValidationError reports a malformed input record. It always names the
// offending field so the caller can identify it without parsing the message.
type ValidationError struct {
	Field  string
	Kind   ValidationErrorKind
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("%s: field is required", e.Field)
	default:
		return fmt.Sprintf("%s: field has wrong type", e.Field)
	}
}

// MissingField builds a ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Kind: KindMissingField}
}

// WrongType builds a ValidationError for a field of the wrong type or range.
func WrongType(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Kind: KindWrongType, Reason: reason}
}

// PublishError reports a snapshot publish failure. It is non-fatal to the
// snapshot itself: the computed snapshot stays valid and returnable.
type PublishError struct {
	Key string
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish snapshot %s: %v", e.Key, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
