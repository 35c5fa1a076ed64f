package pagesnap

import (
	"errors"
	"fmt"
)

// Application error codes. Each maps to exactly one failure kind of the
// result contract.
const (
	EINVALID      = "invalid"
	EFETCH        = "fetch_failed"
	EFETCHTIMEOUT = "fetch_timeout"
	ELAUNCH       = "launch_failed"
	ENAVTIMEOUT   = "navigation_timeout"
	ETOOLARGE     = "payload_too_large"
	ETIMEOUT      = "timeout"
	EUNSUPPORTED  = "unsupported_strategy"
	EINTERNAL     = "internal"
)

// Error represents an application-specific error. Message is safe to show
// to the caller.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("pagesnap error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
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
// Non-application errors return the underlying error text so the caller is
// never left with an empty reason.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
