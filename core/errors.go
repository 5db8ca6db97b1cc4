/*
Package core holds the error conventions shared by all of lipi.

A font decoder can fail in essentially two ways: a resource is not
there (the file, a system font, a required table), or a resource is
there but its content is broken. The error codes mirror that split:
EMISSING for the former, EINVALID for the latter, with EINTERNAL as
the catch-all for errors that carry no code. Errors travelling up from
the parsing layers implement AppError, pairing the code with a message
fit for end users, while the full chain stays available for errors.Is
and errors.As.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package core

import (
	"errors"
	"fmt"
	"os"
)

// Error codes attached to lipi errors.
const (
	NOERROR   int = 0
	EMISSING  int = 122 // resource does not exist or cannot be read
	EINVALID  int = 123 // resource exists, content is malformed
	EINTERNAL int = 125 // no more specific code available
)

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type codedError struct {
	code int
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func (e *codedError) ErrorCode() int {
	return e.code
}

func (e *codedError) UserMessage() string {
	return e.msg
}

var _ AppError = &codedError{}

// WrapError attaches an error code and a user-facing message to err,
// keeping err reachable through the error chain.
func WrapError(err error, code int, format string, v ...interface{}) error {
	return &codedError{
		code: code,
		msg:  fmt.Sprintf(format, v...),
		err:  err,
	}
}

// Code returns the error code found in err's chain. An error without a
// code maps to EINTERNAL; a nil error maps to NOERROR.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserError reports an error on stderr, preferring the user message of
// an AppError over the raw error text.
func UserError(err error) {
	if err == nil {
		return
	}
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "lipi: %s (error %d)\n", e.UserMessage(), e.ErrorCode())
		return
	}
	fmt.Fprintf(os.Stderr, "lipi: %s\n", err.Error())
}
