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
	"log/slog"
	"net/http"
	"time"

	"github.com/corsa-dev/corsa/httperr"
)

// Sentinel route patterns reported to observability when no route matched.
const (
	routeNotFound         = "_not_found"
	routeMethodNotAllowed = "_method_not_allowed"
)

// responseWriter wraps http.ResponseWriter to capture status code and size.
// It also absorbs duplicate WriteHeader calls.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

// WriteHeader captures the status code and drops duplicate calls.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

// Write captures the response size and marks the response as written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the HTTP status code written so far.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the response size in bytes.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Written reports whether any part of the response has been written.
func (rw *responseWriter) Written() bool {
	return rw.written
}

// Compile-time check that responseWriter implements ResponseInfo.
var _ ResponseInfo = (*responseWriter)(nil)

// ExecuteHandler dispatches one request: it resolves the search line against
// the route table, builds the per-request Context, and runs the global
// middleware followed by the route handlers under the explicit-continuation
// contract described on HandlerFunc.
//
// Unmatched requests are terminated here with a plain-text 404, or 405 when
// the path is registered under a different method, and the corresponding
// lifecycle event fires. The returned error is non-nil only when a handler
// returned one; handler-signaled failures (Fail) and routing misses resolve
// locally. The caller owns translating a returned error into a response —
// ServeHTTP does that with httperr.WriteJSON.
func (r *Router) ExecuteHandler(w http.ResponseWriter, req *http.Request) error {
	_, err := r.execute(w, req)
	return err
}

// execute is the dispatch state machine. It returns the matched route
// template (or a sentinel) for observability, plus any propagated handler
// error.
func (r *Router) execute(w http.ResponseWriter, req *http.Request) (string, error) {
	start := time.Now()
	if r.verbose {
		r.logger.Info("dispatch started",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)
	}

	line := searchLine(req.Method, req.URL.Path)
	m, ok := r.table.resolve(line)
	if !ok {
		route := routeNotFound
		if r.table.pathMatchesAnyMethod(req.URL.Path) {
			route = routeMethodNotAllowed
			r.events.publish(Event{
				Name:   EventMethodNotAllowed,
				Route:  req.URL.Path,
				Method: req.Method,
			})
			writePlainStatus(w, http.StatusMethodNotAllowed)
		} else {
			r.events.publish(Event{
				Name:   EventNotFound,
				Route:  req.URL.Path,
				Method: req.Method,
			})
			writePlainStatus(w, http.StatusNotFound)
		}
		r.logDispatchEnd(req, start)
		return route, nil
	}

	c := r.newContext(w, req, m)

	chain := make([]HandlerFunc, 0, len(r.middleware)+len(m.handlers))
	chain = append(chain, r.middleware...)
	chain = append(chain, m.handlers...)

	// Each handler settles fully before the next starts. Continuation is
	// opt-in per handler; anything else stops the chain where it stands.
	for _, h := range chain {
		c.proceed = false
		if err := h(c); err != nil {
			r.events.publish(Event{
				Name:   EventError,
				Err:    err,
				Route:  c.route,
				Method: req.Method,
			})
			r.logDispatchEnd(req, start)
			return c.route, err
		}
		if c.failure != nil {
			r.events.publish(Event{
				Name:   EventError,
				Err:    c.failure,
				Route:  c.route,
				Method: req.Method,
			})
			break
		}
		if !c.proceed {
			break
		}
	}

	r.logDispatchEnd(req, start)
	return c.route, nil
}

// ServeHTTP implements http.Handler. It runs the observability lifecycle
// around dispatch and acts as the catch-all for propagated handler errors,
// translating them into JSON error bodies via httperr.WriteJSON.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	var obsState any

	if r.observability != nil {
		var enriched = ctx
		enriched, obsState = r.observability.OnRequestStart(ctx, req)
		if enriched != ctx {
			ctx = enriched
			req = req.WithContext(ctx)
		}
		if obsState != nil {
			w = r.observability.WrapResponseWriter(w, obsState)
		}
	}

	route, err := r.execute(w, req)
	if err != nil {
		httperr.WriteJSON(w, req, err)
	}

	if obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, w, route)
	}
}

// writePlainStatus terminates a response with a status line, a text/plain
// content type, and no body.
func writePlainStatus(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
}

func (r *Router) logDispatchEnd(req *http.Request, start time.Time) {
	if !r.verbose {
		return
	}
	r.logger.Info("dispatch finished",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Duration("elapsed", time.Since(start)),
	)
}
