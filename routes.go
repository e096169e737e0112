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

import "slices"

// rawRoute is a registration as declared: the "METHOD /full/path" key plus
// the handler list. Kept alongside the compiled form for introspection and
// router merging.
type rawRoute struct {
	key      string
	method   string
	route    string
	handlers []HandlerFunc
}

// routeTable holds both route mappings in registration order.
//
// The matcher's first-match-wins contract requires stable insertion-order
// iteration, so both mappings are explicit ordered slices; the maps only
// index keys back into them. Re-registering an existing key replaces the
// entry in place, keeping its original position.
type routeTable struct {
	raw      []rawRoute
	rawIndex map[string]int

	compiled      []*compiledRoute
	compiledIndex map[string]int
}

func newRouteTable() *routeTable {
	return &routeTable{
		rawIndex:      make(map[string]int),
		compiledIndex: make(map[string]int),
	}
}

// addRaw stores a raw registration, replacing any prior entry for the key.
func (t *routeTable) addRaw(entry rawRoute) {
	if i, ok := t.rawIndex[entry.key]; ok {
		t.raw[i] = entry
		return
	}
	t.rawIndex[entry.key] = len(t.raw)
	t.raw = append(t.raw, entry)
}

// addCompiled stores a compiled route keyed by its pattern, replacing any
// prior entry for the same pattern.
func (t *routeTable) addCompiled(cr *compiledRoute) {
	if i, ok := t.compiledIndex[cr.pattern]; ok {
		t.compiled[i] = cr
		return
	}
	t.compiledIndex[cr.pattern] = len(t.compiled)
	t.compiled = append(t.compiled, cr)
}

// merge copies another table's entries into this one, keys as-is.
// Colliding keys take the incoming entry but keep this table's position.
func (t *routeTable) merge(other *routeTable) {
	for _, entry := range other.raw {
		t.addRaw(entry)
	}
	for _, cr := range other.compiled {
		t.addCompiled(cr)
	}
}

// routeMatch is a successful resolution: the handler chain to run and the
// positionally bound parameters.
type routeMatch struct {
	route    *compiledRoute
	params   []Param
	handlers []HandlerFunc
}

// resolve scans compiled routes in registration order and returns the first
// whose pattern matches the full search line. Captured group i binds to
// paramNames[i]; surplus captures (see the compileRoute limitation) are
// dropped.
func (t *routeTable) resolve(line string) (*routeMatch, bool) {
	for _, cr := range t.compiled {
		m := cr.line.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var params []Param
		if len(cr.paramNames) > 0 {
			params = make([]Param, 0, len(cr.paramNames))
			for i, name := range cr.paramNames {
				if i+1 < len(m) {
					params = append(params, Param{Key: name, Value: m[i+1]})
				}
			}
		}
		return &routeMatch{route: cr, params: params, handlers: cr.handlers}, true
	}
	return nil, false
}

// pathMatchesAnyMethod reports whether any registered pattern, under any
// method, structurally matches the path. Used to distinguish 405 from 404;
// any match suffices, order is irrelevant here.
func (t *routeTable) pathMatchesAnyMethod(path string) bool {
	for _, cr := range t.compiled {
		if cr.path.MatchString(path) {
			return true
		}
	}
	return false
}

// RouteInfo describes a raw registration for introspection.
type RouteInfo struct {
	Method   string
	Path     string
	Handlers int
}

// PatternInfo describes a compiled route for introspection.
type PatternInfo struct {
	Pattern    string
	ParamNames []string
	Handlers   int
}

// Routes returns the raw registrations in registration order.
// The returned slice is a defensive copy.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.table.raw))
	for _, entry := range r.table.raw {
		out = append(out, RouteInfo{
			Method:   entry.method,
			Path:     entry.route,
			Handlers: len(entry.handlers),
		})
	}
	return out
}

// Patterns returns the compiled routes in registration order.
// The returned slice and its parameter name lists are defensive copies.
func (r *Router) Patterns() []PatternInfo {
	out := make([]PatternInfo, 0, len(r.table.compiled))
	for _, cr := range r.table.compiled {
		out = append(out, PatternInfo{
			Pattern:    cr.pattern,
			ParamNames: slices.Clone(cr.paramNames),
			Handlers:   len(cr.handlers),
		})
	}
	return out
}
