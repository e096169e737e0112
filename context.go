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
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"net/netip"
	"time"

	"github.com/google/uuid"

	"github.com/corsa-dev/corsa/httperr"
)

// Param is one bound path parameter. Parameters keep the order in which
// their :name segments appeared in the route template.
type Param struct {
	Key   string
	Value string
}

// HandlerFunc is the signature for route handlers and middleware.
//
// Chain control is explicit:
//   - c.Next() permits the chain to proceed to the next handler.
//   - c.Fail(err) stops the chain and fires the "error" lifecycle event; the
//     dispatch itself does not fail. Whatever response has (or has not) been
//     written stands — the handlers up to this point own the response.
//   - returning a non-nil error stops the chain, fires the "error" event, and
//     propagates the error out of ExecuteHandler to its caller.
//   - doing none of the above ends the chain at this handler.
type HandlerFunc func(*Context) error

// Context wraps the native request and response for one dispatch.
//
// It is created fresh when a request resolves to a route and discarded when
// the dispatch ends; nothing in it survives across requests. The native
// objects are held by reference and never mutated in shape.
//
// Context is not safe for concurrent use: it belongs to the single goroutine
// handling its request.
type Context struct {
	// Request is the native request, untouched.
	Request *http.Request

	// Response is the response writer for this dispatch. Status code and
	// written size are captured as they pass through.
	Response http.ResponseWriter

	writer *responseWriter
	router *Router

	requestID  string
	receivedAt time.Time
	clientIP   netip.Addr
	route      string
	params     []Param

	store map[string]any

	status int // pending status for the next body write; 0 means unset

	body       any
	bodyErr    error
	bodyParsed bool

	proceed bool  // set by Next; cleared before each handler runs
	failure error // set by Fail; stops the chain without propagating
}

// newContext builds the per-dispatch context. The response writer is wrapped
// to capture status and size; the native writer is left as-is.
func (r *Router) newContext(w http.ResponseWriter, req *http.Request, m *routeMatch) *Context {
	rw := &responseWriter{ResponseWriter: w}
	return &Context{
		Request:    req,
		Response:   rw,
		writer:     rw,
		router:     r,
		requestID:  uuid.NewString(),
		receivedAt: time.Now(),
		clientIP:   extractClientIP(req, r.realip),
		route:      m.route.route,
		params:     m.params,
	}
}

// RequestID returns the unique identifier generated for this dispatch.
func (c *Context) RequestID() string {
	return c.requestID
}

// ReceivedAt returns the time this dispatch began.
func (c *Context) ReceivedAt() time.Time {
	return c.receivedAt
}

// Route returns the registered path template this request matched,
// prefix included.
func (c *Context) Route() string {
	return c.route
}

// ClientIP returns the client network address resolved for this request.
// The zero Addr means no address could be determined.
func (c *Context) ClientIP() netip.Addr {
	return c.clientIP
}

// Param returns the value bound to the named path parameter, or "" when the
// route has no such parameter. Binding is positional: the i-th :name in the
// template takes the i-th captured path segment, whatever the names are.
func (c *Context) Param(key string) string {
	for _, p := range c.params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Params returns the bound parameters in template order, as a copy.
func (c *Context) Params() []Param {
	out := make([]Param, len(c.params))
	copy(out, c.params)
	return out
}

// Set stores a value in the request-scoped context bag.
func (c *Context) Set(key string, value any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = value
}

// Get reads a value from the context bag. The second return reports whether
// the key is present; a missing key is not an error.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.store[key]
	return v, ok
}

// Has reports whether the context bag holds the key.
func (c *Context) Has(key string) bool {
	_, ok := c.store[key]
	return ok
}

// Remove deletes a key from the context bag. Removing an absent key is a
// no-op.
func (c *Context) Remove(key string) {
	delete(c.store, key)
}

// Values returns a snapshot copy of the context bag. Mutating the returned
// map does not touch the bag; handlers mutate through Set and Remove.
func (c *Context) Values() map[string]any {
	out := make(map[string]any, len(c.store))
	maps.Copy(out, c.store)
	return out
}

// Body returns the parsed request body, dispatching on Content-Type
// (application/json, text/plain, application/x-www-form-urlencoded; anything
// else is treated as plain text). The body is read and parsed once; repeated
// calls return the same result. Parse failures are httperr bad-request
// failures.
func (c *Context) Body() (any, error) {
	if !c.bodyParsed {
		c.body, c.bodyErr = parseRequestBody(c.Request)
		c.bodyParsed = true
	}
	return c.body, c.bodyErr
}

// Status sets the status code for the next body write and returns the
// context for chaining:
//
//	return c.Status(http.StatusCreated).JSON(user)
//
// Unset, the status defaults to 200 OK.
func (c *Context) Status(code int) *Context {
	c.status = code
	return c
}

// JSON serializes v and writes it with an application/json content type,
// using the pending Status (default 200).
//
// Serialization happens before any bytes are written: an unserializable
// value returns an httperr unprocessable-entity failure with the response
// untouched, so the handler can still change strategy.
func (c *Context) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return httperr.UnprocessableEntity("response body could not be serialized to JSON").
			WithLocation("Context.JSON").
			WithContext("cause", err.Error())
	}
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.writeStatus()
	_, err = c.Response.Write(data)
	return err
}

// SendOption adjusts Send and SendString behavior.
type SendOption func(*sendOptions)

type sendOptions struct {
	noNewline bool
}

// WithoutTrailingNewline suppresses the newline SendString appends to
// string payloads.
func WithoutTrailingNewline() SendOption {
	return func(o *sendOptions) {
		o.noNewline = true
	}
}

// SendString writes s using the pending Status and terminates the response.
// A trailing newline is appended unless suppressed with
// WithoutTrailingNewline.
func (c *Context) SendString(s string, opts ...SendOption) error {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.noNewline {
		s += "\n"
	}
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	c.writeStatus()
	_, err := c.Response.Write([]byte(s))
	return err
}

// Send writes raw bytes using the pending Status and terminates the
// response. No newline handling applies to byte payloads.
func (c *Context) Send(data []byte) error {
	c.writeStatus()
	_, err := c.Response.Write(data)
	return err
}

// writeStatus flushes the pending status code, defaulting to 200 OK.
// Duplicate writes are absorbed by the response writer wrapper.
func (c *Context) writeStatus() {
	code := c.status
	if code == 0 {
		code = http.StatusOK
	}
	c.Response.WriteHeader(code)
}

// StatusCode returns the status code written so far, or 200 when a body was
// written without an explicit status, or 0 when nothing has been written.
func (c *Context) StatusCode() int {
	if !c.writer.Written() {
		return 0
	}
	return c.writer.StatusCode()
}

// Written reports whether any part of the response has been written.
func (c *Context) Written() bool {
	return c.writer.Written()
}

// Next signals that the chain may proceed to the next handler once this one
// returns. Without the signal the chain stops here.
func (c *Context) Next() {
	c.proceed = true
}

// Fail stops the chain with a handler-signaled error. The "error" lifecycle
// event fires with err as payload; the dispatch itself completes normally.
// The handlers run so far remain responsible for the response.
func (c *Context) Fail(err error) {
	c.failure = err
}

// Logger returns the router's logger, scoped with the request id, method and
// route. Returns the shared no-op logger when the router has none configured.
func (c *Context) Logger() *slog.Logger {
	if c.router == nil || c.router.logger == noopLogger {
		return noopLogger
	}
	return c.router.logger.With(
		slog.String("request_id", c.requestID),
		slog.String("method", c.Request.Method),
		slog.String("route", c.route),
	)
}
