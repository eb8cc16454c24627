package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Is and As re-export the stdlib helpers so callers only import this package.
func Is(err, target error) bool    { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }

// Not found: the aggregate the caller targets does not exist.
var (
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrMessageNotFound      = fmt.Errorf("message not found")
)

// Unauthorized: the caller exists but is not allowed to perform the operation.
var (
	ErrNotParticipant = fmt.Errorf("user is not a participant in this conversation")
	ErrSenderSelfRead = fmt.Errorf("cannot mark own message as read")
	ErrSenderSelfAck  = fmt.Errorf("cannot acknowledge delivery of own message")
	ErrNotSender      = fmt.Errorf("only the sender can modify this message")
)

// Invalid state: the operation is legal in general but not on this aggregate.
var (
	ErrOneToOneImmutable = fmt.Errorf("participants of a one-to-one conversation are immutable")
)

var (
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
)

// ValidationError carries field-level violations so callers can translate
// them into transport responses without parsing error strings.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return As(err, &ve)
}
