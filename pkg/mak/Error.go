// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package mak

import (
	"fmt"
)

// Code is the exit status of a failed command.
type Code int

const (
	SourceNotFound          Code = 1
	SourceNotFoundAfterGlob Code = 2
	DestDirMissing          Code = 3
	DestPathTooDeep         Code = 4
	DestExists              Code = 5
	NotImplemented          Code = 101
)

func (c Code) String() string {
	switch c {
	case SourceNotFound:
		return "SourceNotFound"
	case SourceNotFoundAfterGlob:
		return "SourceNotFoundAfterGlob"
	case DestDirMissing:
		return "DestDirMissing"
	case DestPathTooDeep:
		return "DestPathTooDeep"
	case DestExists:
		return "DestExists"
	case NotImplemented:
		return "NotImplemented"
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a named failure with a fixed exit code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[error %d] %s", e.Code, e.Message)
}

func newError(code Code, format string, a ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// UnexpectedError wraps any failure of the underlying file system that is not a named failure.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

func unexpected(format string, a ...interface{}) *UnexpectedError {
	return &UnexpectedError{Err: fmt.Errorf(format, a...)}
}
