// Package domainerrors defines the coded error type shared by services and
// handlers. Stores return sentinel errors (pkg/platform/sentinel) describing
// infrastructure facts; services translate those into coded domain errors so
// the HTTP layer can map failures to responses without a generic handler.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. Handlers branch on codes, never on
// messages.
type Code string

const (
	// CodeValidation marks a request whose fields fail domain validation
	// (missing identity fields on a new partida, malformed decree dates).
	CodeValidation Code = "validation"
	// CodeBadRequest marks a syntactically unusable request (bad JSON,
	// missing parameters).
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks a value rejected at a trust boundary
	// (unparseable ID, unknown enum value).
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound marks an operation against a record, decree, or parish
	// that does not exist.
	CodeNotFound Code = "not_found"
	// CodeConceptNotFound marks an unresolvable annulment concept. It fails
	// decree creation; note generation never raises it and defaults instead.
	CodeConceptNotFound Code = "concept_not_found"
	// CodeConflict marks a state clash (duplicate decree number, deleting a
	// referenced concept, finalizing an already finalized decree).
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a domain invariant breach detected by
	// model constructors and transition guards.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a valid credential without the required scope.
	CodeForbidden Code = "forbidden"
	// CodeTimeout marks an operation aborted by deadline or cancellation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks everything the caller cannot act on.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. It optionally wraps an underlying cause so
// errors.Is/As keep working through the translation layers.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Unwrap for logging; callers branch on the code.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// Is is a readability alias for HasCode at handler call sites.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, or empty when err carries
// none. Internal causes are deliberately not exposed here.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code to the HTTP status the transport layer should
// return.
func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound, CodeConceptNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
