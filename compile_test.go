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

package corsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRouteLiteral(t *testing.T) {
	t.Parallel()
	cr, err := compileRoute("get", "/health")
	require.NoError(t, err)

	assert.Equal(t, "GET /health", cr.pattern)
	assert.Empty(t, cr.paramNames)
	assert.Equal(t, "GET", cr.method)
	assert.True(t, cr.line.MatchString("GET /health"))
	assert.False(t, cr.line.MatchString("GET /health/extra"))
	assert.False(t, cr.line.MatchString("POST /health"))
}

func TestCompileRouteParams(t *testing.T) {
	t.Parallel()
	cr, err := compileRoute("GET", "/users/:id/posts/:post_id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "post_id"}, cr.paramNames)
	assert.Equal(t, len(cr.paramNames), cr.line.NumSubexp(),
		"one capturing group per parameter")

	m := cr.line.FindStringSubmatch("GET /users/42/posts/7")
	require.Len(t, m, 3)
	assert.Equal(t, "42", m[1])
	assert.Equal(t, "7", m[2])
}

func TestCompileRouteParamDoesNotCrossSlash(t *testing.T) {
	t.Parallel()
	cr, err := compileRoute("GET", "/files/:name")
	require.NoError(t, err)

	assert.True(t, cr.line.MatchString("GET /files/report.txt"))
	assert.False(t, cr.line.MatchString("GET /files/a/b"))
}

func TestCompileRouteEmptyInputs(t *testing.T) {
	t.Parallel()
	_, err := compileRoute("", "/x")
	assert.ErrorIs(t, err, ErrEmptyMethod)

	_, err = compileRoute("GET", "")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

// A literal wildcard token in a template is indistinguishable from a
// compiled parameter. This pins the documented limitation rather than the
// desired behavior.
func TestCompileRouteWildcardTokenCollision(t *testing.T) {
	t.Parallel()
	cr, err := compileRoute("GET", "/odd/([^/]+)")
	require.NoError(t, err)

	assert.Empty(t, cr.paramNames)
	assert.Equal(t, 1, cr.line.NumSubexp(),
		"the literal token compiles to a capture with no name backing it")
	assert.True(t, cr.line.MatchString("GET /odd/anything"))
}

func TestSearchLineUppercasesMethod(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "GET /a", searchLine("get", "/a"))
	assert.Equal(t, "DELETE /a/b", searchLine("Delete", "/a/b"))
}
