// Package errors defines the coded errors geco reports to CLI users and API
// clients.
//
// Every code belongs to a class: invalid input, missing resource, backend
// failure or internal error. The CLI prints [UserMessage]; the HTTP API maps
// the class to a status.
//
//	if err := q.Validate(); err != nil {
//	    return errors.Wrap(errors.ErrCodeInvalidQuery, err, "query %s", q.Key())
//	}
//	if errors.IsNotFound(err) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidQuery    Code = "INVALID_QUERY"
	ErrCodeInvalidNotation Code = "INVALID_NOTATION"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidDataset  Code = "INVALID_DATASET"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeDatasetNotFound Code = "DATASET_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Backend failures. STALE_RESULT marks a fetch superseded by a newer
	// request for the same query.
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"
	ErrCodeStale   Code = "STALE_RESULT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

type class int

const (
	classInternal class = iota
	classInvalid
	classNotFound
	classBackend
)

var classes = map[Code]class{
	ErrCodeInvalidInput:    classInvalid,
	ErrCodeInvalidQuery:    classInvalid,
	ErrCodeInvalidNotation: classInvalid,
	ErrCodeInvalidFormat:   classInvalid,
	ErrCodeInvalidStyle:    classInvalid,
	ErrCodeInvalidDataset:  classInvalid,
	ErrCodeInvalidPath:     classInvalid,
	ErrCodeNotFound:        classNotFound,
	ErrCodeDatasetNotFound: classNotFound,
	ErrCodeFileNotFound:    classNotFound,
	ErrCodeNetwork:         classBackend,
	ErrCodeTimeout:         classBackend,
	ErrCodeStale:           classBackend,
}

// Error carries a code, a message for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage returns the message without code prefix or cause, or
// err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func classOf(err error) class {
	return classes[GetCode(err)]
}

// IsInvalid reports whether err is an INVALID_* error.
func IsInvalid(err error) bool { return classOf(err) == classInvalid }

// IsNotFound reports whether err reports a missing resource.
func IsNotFound(err error) bool { return classOf(err) == classNotFound }

// IsBackend reports whether err is a failure of a remote backend: network,
// timeout or stale result.
func IsBackend(err error) bool { return classOf(err) == classBackend }
