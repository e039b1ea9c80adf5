package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the stage of the pipeline an error came from
type ErrorType string

const (
	ErrorTypeScrape    ErrorType = "scrape"
	ErrorTypeInventory ErrorType = "inventory"
	ErrorTypeDownload  ErrorType = "download"
	ErrorTypeNotify    ErrorType = "notify"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error represents a pipeline error with type information.
// Code carries the HTTP status when the failure came from a response, 0 otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given type
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates an error of the given type around a cause
func Wrap(errorType ErrorType, err error, message string) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// WithCode returns a copy of e carrying an HTTP status code
func (e *Error) WithCode(code int) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

// IsType reports whether any error in err's chain is an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}

// TypeOf returns the type of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsFatal reports whether an error of this type aborts the run.
// Download and notify failures are recovered where they happen.
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeDownload, ErrorTypeNotify:
		return false
	default:
		return true
	}
}
