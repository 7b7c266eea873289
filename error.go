package distill

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic codes describing the class of error rather
// than a specific error condition. The extraction-specific codes map one to
// one onto the caller-visible extraction statuses.
const (
	EINTERNAL = "internal"  // internal error
	EINVALID  = "invalid"   // validation failed
	ENOTFOUND = "not_found" // entity does not exist

	EMALFORMED     = "malformed_input"   // input cannot be parsed into any tree
	ENOCONTENT     = "no_content_found"  // no node clears the score floor
	EPOOLTIMEOUT   = "pool_timeout"      // no rendering session available in time
	ERENDERTIMEOUT = "render_timeout"    // page did not settle in time
	ERENDERFAILED  = "render_failed"     // session crashed twice for one request
)

// Error represents an application-specific error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Code is one of the application error codes above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("distill error: code=%s message=%s", e.Code, e.Message)
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
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}
