package geodossier

import (
	"errors"
	"fmt"
)

// Generic error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Analysis error codes. The resolution-stage codes and ERENDERFAILURE are
// terminal and user-facing; EHARVESTPARTIAL and ECORRELATIONUNAVAILABLE never
// leave the component that produced them.
const (
	EADDRESSNOTFOUND        = "address_not_found"
	EOUTOFJURISDICTION      = "out_of_jurisdiction"
	EGEOCODINGUNAVAILABLE   = "geocoding_unavailable"
	EHARVESTPARTIAL         = "harvest_partial"
	ECORRELATIONUNAVAILABLE = "correlation_unavailable"
	ERENDERFAILURE          = "render_failure"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("geodossier error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// UserMessage returns the message shown to an end user for a failed analysis.
// Resolution failures get a specific message, everything else a generic one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch ErrorCode(err) {
	case EADDRESSNOTFOUND:
		return "Address not found."
	case EOUTOFJURISDICTION:
		return "Area outside jurisdiction: the system operates only on the configured provinces."
	case EGEOCODINGUNAVAILABLE:
		return "Geocoding service unavailable. Try again later."
	case EINVALID:
		return ErrorMessage(err)
	case ERENDERFAILURE:
		return "The dossier could not be compiled. Run the analysis again."
	default:
		return "An internal error occurred."
	}
}
