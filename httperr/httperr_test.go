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

package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndAccessors(t *testing.T) {
	t.Parallel()
	e := New(http.StatusConflict, "already exists", "use a different name")
	assert.Equal(t, "already exists", e.Error())
	assert.Equal(t, http.StatusConflict, e.StatusCode())
}

func TestStatusCodeDefaultsTo500(t *testing.T) {
	t.Parallel()
	e := &Error{Message: "zero status"}
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode())
}

func TestWithChaining(t *testing.T) {
	t.Parallel()
	e := BadRequest("bad input").
		WithLocation("handler.create").
		WithContext("field", "name").
		WithContext("length", 300).
		WithFieldErrors(FieldError{Field: "name", Message: "too long"})

	assert.Equal(t, "handler.create", e.Location)
	assert.Equal(t, "name", e.Context["field"])
	assert.Equal(t, 300, e.Context["length"])
	require.Len(t, e.Errors, 1)
	assert.Equal(t, "too long", e.Errors[0].Message)
}

func TestSerializeShape(t *testing.T) {
	t.Parallel()
	e := NotFound("user not found").WithLocation("users.get").WithContext("id", "42")
	out := e.Serialize()

	assert.Equal(t, "user not found", out["message"])
	assert.Equal(t, "check the requested resource path", out["action"])
	assert.Equal(t, "users.get", out["location"])
	assert.Equal(t, http.StatusNotFound, out["statusCode"])
	assert.Equal(t, map[string]any{"id": "42"}, out["context"])
	_, hasErrors := out["errors"]
	assert.False(t, hasErrors, "errors key is present only with field errors")
}

func TestSerializeEmptyContextIsEmptyMap(t *testing.T) {
	t.Parallel()
	out := Internal("oops").Serialize()
	assert.Equal(t, map[string]any{}, out["context"], "empty map, never null")
}

func TestSerializeCopiesContext(t *testing.T) {
	t.Parallel()
	e := BadRequest("x").WithContext("k", "v")
	out := e.Serialize()
	ctx, ok := out["context"].(map[string]any)
	require.True(t, ok)
	ctx["k"] = "mutated"
	assert.Equal(t, "v", e.Context["k"])
}

func TestSerializeWithFieldErrors(t *testing.T) {
	t.Parallel()
	e := UnprocessableEntity("validation failed").WithFieldErrors(
		FieldError{Field: "email", Message: "invalid"},
		FieldError{Field: "age", Message: "negative"},
	)
	out := e.Serialize()
	errs, ok := out["errors"].([]FieldError)
	require.True(t, ok)
	assert.Len(t, errs, 2)
}

func TestConstructorStatuses(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err    *Error
		status int
	}{
		{BadRequest("m"), http.StatusBadRequest},
		{Unauthorized("m"), http.StatusUnauthorized},
		{Forbidden("m"), http.StatusForbidden},
		{NotFound("m"), http.StatusNotFound},
		{MethodNotAllowed("m"), http.StatusMethodNotAllowed},
		{UnprocessableEntity("m"), http.StatusUnprocessableEntity},
		{Internal("m"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode())
		assert.NotEmpty(t, tc.err.Action, "every constructor sets a suggested action")
	}
}

func TestWrapPassesStructuredThrough(t *testing.T) {
	t.Parallel()
	orig := Forbidden("nope")
	assert.Same(t, orig, Wrap(orig))

	wrapped := fmt.Errorf("outer: %w", orig)
	assert.Same(t, orig, Wrap(wrapped), "unwrapping finds the structured failure")
}

func TestWrapPlainError(t *testing.T) {
	t.Parallel()
	e := Wrap(errors.New("disk full"))
	assert.Equal(t, "disk full", e.Message)
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode())
	assert.Contains(t, e.Context, "cause")
}

func TestWriteJSONStructured(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	rec := httptest.NewRecorder()

	WriteJSON(rec, req, NotFound("user not found").WithLocation("users.get"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user not found", body["message"])
	assert.Equal(t, "users.get", body["location"])
	assert.Equal(t, float64(http.StatusNotFound), body["statusCode"])
	assert.Equal(t, "/users/7", body["requestedUrl"])
}

func TestWriteJSONPlainError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	WriteJSON(rec, nil, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body["message"])
	_, hasURL := body["requestedUrl"]
	assert.False(t, hasURL, "no request, no requestedUrl")
}

func TestWriteJSONUnserializableContext(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	WriteJSON(rec, nil, Internal("broken").WithContext("ch", make(chan int)))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body),
		"fallback body is still valid JSON")
	assert.Equal(t, "broken", body["message"])
}
