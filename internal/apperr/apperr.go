// Package apperr defines the failure taxonomy shared by the service layer
// and the HTTP boundary. Services return these typed errors; the router's
// error handler maps them to status codes and the JSON error envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation rejects malformed or rule-violating input (422).
	KindValidation Kind = iota
	// KindAuthentication means the caller is missing or unidentifiable (401).
	KindAuthentication
	// KindAuthorization means the caller lacks the required relation (403).
	KindAuthorization
	// KindNotFound means no record matches, or the identifier is malformed (404).
	KindNotFound
	// KindState rejects an illegal lifecycle transition (400).
	KindState
	// KindConflict rejects a duplicate relationship or reaction (422).
	KindConflict
)

// Error is a typed application failure.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries field-level validation messages, when applicable.
	Fields []string
}

func (e *Error) Error() string { return e.Message }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusUnprocessableEntity
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindState:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Validation creates a 422 validation error with field-level messages.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Authentication creates a 401 error.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization creates a 403 error.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound creates a 404 error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// State creates a 400 illegal-transition error.
func State(message string) *Error {
	return &Error{Kind: KindState, Message: message}
}

// Conflict creates a 422 duplicate-record error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// PageNotFound is returned for malformed route identifiers, deliberately
// indistinguishable from a missing record.
func PageNotFound() *Error {
	return &Error{Kind: KindNotFound, Message: "Page not found"}
}

// As unwraps err into an *Error, or nil if err is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// Envelope is the JSON error body recovered at the request boundary.
type Envelope struct {
	Err EnvelopeBody `json:"err"`
}

// EnvelopeBody carries the message and status of a recovered error.
type EnvelopeBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// NewEnvelope builds the error envelope for a message and status code.
func NewEnvelope(message string, status int) Envelope {
	return Envelope{Err: EnvelopeBody{Message: message, Status: status}}
}
