// Copyright (c) 2025, Wattline.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import "fmt"

// ErrorCode classifies an error for programmatic handling. The string
// values are part of the public API error contract and appear verbatim
// in error envelopes.
type ErrorCode string

const (
	// ErrCodeNotFound: the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnauthorized: authentication or authorization failed.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeTimeout: the operation ran past its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal: an unexpected server-side failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest: the request could not be parsed at all.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeValidation: the request parsed but its content broke a
	// schema constraint (missing field, out-of-range value).
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeRateLimitExceeded: the client ran past an enforced
	// request limit.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeMethodNotAllowed: the HTTP method is not valid for the
	// resource.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeUnavailable: a backing service cannot be reached right
	// now. Retrying is reasonable.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// StructuredError carries a machine-readable code alongside the
// human-readable message, plus the wrapped cause and any key/value
// context worth logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// New returns a StructuredError with no cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext is New plus debugging context.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap classifies an underlying error under the given code.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext is Wrap plus debugging context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// Error renders "[CODE] message" with the cause appended when present.
func (e *StructuredError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}
