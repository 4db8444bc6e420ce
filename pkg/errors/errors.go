// Package errors carries coded errors through the flattener, the store and
// the HTTP API.
//
// Every error raised at a package boundary is an [*Error] with a [Code].
// Callers branch on the code, or on its [Kind] when only the category
// matters:
//
//	if errors.Is(err, errors.ErrCodeDocumentNotFound) { ... }
//	switch errors.CodeOf(err).Kind() {
//	case errors.KindNotFound:
//	    // 404
//	}
//
// Unresolved service references are not errors; the flattener drops them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable, machine-readable error identifier. It is part of the
// HTTP API's error body.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidName      Code = "INVALID_NAME"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"

	ErrCodeStore       Code = "STORE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who is at fault.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindUnsupported
)

// Kind classifies c. Unknown and empty codes are internal.
func (c Code) Kind() Kind {
	switch {
	case strings.HasPrefix(string(c), "INVALID_"):
		return KindInvalid
	case c == ErrCodeNotFound || strings.HasSuffix(string(c), "_NOT_FOUND"):
		return KindNotFound
	case c == ErrCodeUnsupported:
		return KindUnsupported
	}
	return KindInternal
}

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) Code {
	if e := find(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause from a coded error. Other
// errors are returned verbatim.
func UserMessage(err error) string {
	if e := find(err); e != nil {
		return e.Message
	}
	return err.Error()
}

func find(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
