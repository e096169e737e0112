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
	"fmt"
	"regexp"
	"strings"
)

// paramCapture is the wildcard substituted for each :name segment: one or
// more non-slash characters, captured.
const paramCapture = `([^/]+)`

// paramToken matches a :name parameter occurrence in a path template.
var paramToken = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// compiledRoute is a route template compiled into matchable form.
//
// line matches the full search line "METHOD /actual/path"; path matches the
// path portion alone and is used for the 405 probe, where the method is
// deliberately ignored. paramNames holds the template's parameter names in
// left-to-right order; captured group i of line binds to paramNames[i].
type compiledRoute struct {
	pattern    string // compiled pattern string, used as the table key
	line       *regexp.Regexp
	path       *regexp.Regexp
	paramNames []string
	method     string
	route      string // full registered path, prefix included
	handlers   []HandlerFunc
}

// compileRoute turns a method and a full path template into a compiledRoute.
//
// Every :name occurrence becomes a capturing wildcard and its name is recorded
// in order. A template without parameters compiles to its literal text.
//
// Known limitation: the substitution is textual. A literal "([^/]+)" in a
// registered path is indistinguishable from a compiled wildcard and will match
// as one. Callers own their templates; this is not guarded against.
func compileRoute(method, route string) (*compiledRoute, error) {
	if method == "" {
		return nil, ErrEmptyMethod
	}
	if route == "" {
		return nil, ErrEmptyPath
	}
	method = strings.ToUpper(method)

	var names []string
	compiledPath := paramToken.ReplaceAllStringFunc(route, func(token string) string {
		names = append(names, token[1:])
		return paramCapture
	})

	pattern := method + " " + compiledPath

	line, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, route, err)
	}
	path, err := regexp.Compile("^" + compiledPath + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, route, err)
	}

	return &compiledRoute{
		pattern:    pattern,
		line:       line,
		path:       path,
		paramNames: names,
		method:     method,
		route:      route,
	}, nil
}

// searchLine builds the line a compiled route is matched against.
func searchLine(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
