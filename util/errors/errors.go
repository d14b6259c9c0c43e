/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Error extends error with an error code and a unique error ID
type Error interface {
	error

	// ErrorCode returns the error code
	ErrorCode() ErrorCode
	// ErrorID returns the unique ID assigned when the error was created
	ErrorID() string
	// LogMsg returns the message to be logged
	LogMsg() string
}

type codedError struct {
	error
	code    ErrorCode
	errorID string
}

// New returns a new Error
func New(code ErrorCode, msg string) Error {
	return &codedError{
		error:   errors.New(msg),
		code:    code,
		errorID: xid.New().String(),
	}
}

// Errorf returns a new Error with a formatted message
func Errorf(code ErrorCode, format string, args ...interface{}) Error {
	return &codedError{
		error:   errors.Errorf(format, args...),
		code:    code,
		errorID: xid.New().String(),
	}
}

// Wrap annotates cause with a message and a code
func Wrap(code ErrorCode, cause error, msg string) Error {
	return &codedError{
		error:   errors.Wrap(cause, msg),
		code:    code,
		errorID: xid.New().String(),
	}
}

// Wrapf annotates cause with a formatted message and a code
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) Error {
	return &codedError{
		error:   errors.Wrapf(cause, format, args...),
		code:    code,
		errorID: xid.New().String(),
	}
}

// WithMessage annotates cause with a message without a stack trace
func WithMessage(code ErrorCode, cause error, msg string) Error {
	return &codedError{
		error:   errors.WithMessage(cause, msg),
		code:    code,
		errorID: xid.New().String(),
	}
}

// GetError returns the Error from err's cause chain, if any
func GetError(err error) (Error, bool) {
	for err != nil {
		if e, ok := err.(Error); ok {
			return e, true
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return nil, false
}

// Cause returns the underlying error
func (e *codedError) Cause() error {
	return e.error
}

// Unwrap returns the underlying error
func (e *codedError) Unwrap() error {
	return e.error
}

func (e *codedError) ErrorCode() ErrorCode {
	return e.code
}

func (e *codedError) ErrorID() string {
	return e.errorID
}

func (e *codedError) LogMsg() string {
	return fmt.Sprintf("errorID:%s errorCode:%s error:%v", e.errorID, e.code, e.error)
}
