// Copyright 2026 The Corsa Authors
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

// Package httperr provides the structured HTTP failure type shared by the
// router and its callers, and the JSON formatter the outer server uses as
// its catch-all.
//
// A failure carries a human-readable message, a suggested action, the code
// location that raised it, an HTTP status code, a free-form context map and
// optional per-field errors. Serialize produces the wire form consumed by
// error bodies:
//
//	{"message": ..., "action": ..., "location": ..., "statusCode": ...,
//	 "context": {...}, "errors": [...]}
package httperr

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// FieldError describes a failure scoped to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a structured HTTP failure.
//
// Values are immutable by convention: the With* methods mutate and return
// the receiver for construction-time chaining and are not meant for errors
// already in flight.
type Error struct {
	Message  string
	Action   string
	Location string
	Status   int
	Context  map[string]any
	Errors   []FieldError
}

// New creates a structured failure with the given status, message and
// suggested action.
func New(status int, message, action string) *Error {
	return &Error{
		Message: message,
		Action:  action,
		Status:  status,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status this failure maps to.
func (e *Error) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// WithLocation records where the failure was raised.
func (e *Error) WithLocation(location string) *Error {
	e.Location = location
	return e
}

// WithContext adds one key to the failure's context map.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithFieldErrors attaches per-field errors.
func (e *Error) WithFieldErrors(errs ...FieldError) *Error {
	e.Errors = append(e.Errors, errs...)
	return e
}

// Serialize produces the wire form of the failure. The context map is
// copied; "errors" is present only when field errors exist.
func (e *Error) Serialize() map[string]any {
	out := map[string]any{
		"message":    e.Message,
		"action":     e.Action,
		"location":   e.Location,
		"statusCode": e.StatusCode(),
		"context":    map[string]any{},
	}
	if len(e.Context) > 0 {
		ctx := make(map[string]any, len(e.Context))
		maps.Copy(ctx, e.Context)
		out["context"] = ctx
	}
	if len(e.Errors) > 0 {
		out["errors"] = append([]FieldError(nil), e.Errors...)
	}
	return out
}

// BadRequest creates a 400 failure.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, "check the request and try again")
}

// Unauthorized creates a 401 failure.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, "authenticate and try again")
}

// Forbidden creates a 403 failure.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, "check your permissions")
}

// NotFound creates a 404 failure.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, "check the requested resource path")
}

// MethodNotAllowed creates a 405 failure.
func MethodNotAllowed(message string) *Error {
	return New(http.StatusMethodNotAllowed, message, "check the request method")
}

// UnprocessableEntity creates a 422 failure.
func UnprocessableEntity(message string) *Error {
	return New(http.StatusUnprocessableEntity, message, "check the data being processed")
}

// Internal creates a 500 failure.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message, "try again later or contact support")
}

// Wrap converts any error into a structured failure. Structured failures
// pass through unchanged; anything else becomes a 500 with default action
// and the original error preserved in context.
func Wrap(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return Internal(err.Error()).WithContext("cause", fmt.Sprintf("%T", err))
}
