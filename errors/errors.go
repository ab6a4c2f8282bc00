package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// PlatformError is an error carrying an ErrorCode and optional context.
// Use errors.As to extract it from a wrapped chain.
type PlatformError interface {
	error

	// Code returns the classification of the error.
	Code() ErrorCode

	// Message returns the human readable message without the cause.
	Message() string

	// Context returns the key/value pairs attached to the error.
	Context() map[string]interface{}

	// Unwrap returns the underlying cause, if any.
	Unwrap() error
}

type platformError struct {
	code    ErrorCode
	message string
	context map[string]interface{}
	cause   error
}

// New creates a PlatformError with the given code and message.
//
//nolint:ireturn // PlatformError is the public contract of this package
func New(code ErrorCode, message string) PlatformError {
	return &platformError{code: code, message: message}
}

// Newf creates a PlatformError with a formatted message.
//
//nolint:ireturn // PlatformError is the public contract of this package
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return &platformError{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. It returns nil when err is nil.
//
//nolint:ireturn // PlatformError is the public contract of this package
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}
	return &platformError{code: code, message: message, cause: err}
}

// WrapWithContext wraps err with a code, message and context map.
// The context map is copied. It returns nil when err is nil.
//
//nolint:ireturn // PlatformError is the public contract of this package
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return &platformError{code: code, message: message, context: copyContext(ctx), cause: err}
}

func (e *platformError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.code))
	b.WriteString(": ")
	b.WriteString(e.message)

	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.context[k])
		}
		b.WriteString("]")
	}

	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

func (e *platformError) Code() ErrorCode                 { return e.code }
func (e *platformError) Message() string                 { return e.message }
func (e *platformError) Context() map[string]interface{} { return copyContext(e.context) }
func (e *platformError) Unwrap() error                   { return e.cause }

// GetCode returns the code of the outermost PlatformError in err's chain,
// or CodeUnknown if there is none.
func GetCode(err error) ErrorCode {
	var pe PlatformError
	if stderrors.As(err, &pe) {
		return pe.Code()
	}
	return CodeUnknown
}

// HasCode reports whether any PlatformError in err's chain has the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if pe, ok := err.(PlatformError); ok && pe.Code() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if len(ctx) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
