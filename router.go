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
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// noopLogger is a shared no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the shared no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Router matches HTTP requests against registered route templates and
// executes handler chains.
//
// Routes are tried in registration order and the first structural match wins,
// so overlapping templates resolve by which was registered first. A Router is
// configured during a setup phase (registration, middleware, event listeners)
// and then serves; the two phases must not interleave. Concurrent dispatches
// are safe once setup is complete: each request owns its own Context.
//
// Example:
//
//	r := corsa.MustNew(corsa.WithVerbose(true))
//	r.Use(requestLogger)
//	r.GET("/users/:id", func(c *corsa.Context) error {
//	    return c.JSON(map[string]string{"id": c.Param("id")})
//	})
//	r.Serve(":8080")
type Router struct {
	prefix     string
	table      *routeTable
	middleware []HandlerFunc // global middleware, run before route handlers
	events     *eventHub

	logger      *slog.Logger
	verbose     bool
	strictSlash bool // reserved: accepted but not consulted by the matcher

	observability ObservabilityRecorder
	realip        *realIPConfig

	enableH2C      bool
	serverTimeouts *serverTimeouts

	server   *http.Server
	serverMu sync.Mutex
}

// Option configures a Router. See the With* functions.
type Option func(*Router)

// New creates a router with optional configuration.
//
// Configuration is validated immediately; for a version that panics instead
// of returning an error, use MustNew.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		table:  newRouteTable(),
		events: newEventHub(),
		logger: noopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}
	return r, nil
}

// MustNew creates a router and panics if the configuration is invalid.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("corsa.MustNew: %v", err))
	}
	return r
}

// NewWithPrefix creates a router whose registrations all live under prefix.
// The prefix is baked into every registration key, so mounting the router
// elsewhere later does not re-apply it.
//
// Example:
//
//	api := corsa.MustNewWithPrefix("/api/v1")
//	api.GET("/users/:id", userByID) // registered as "GET /api/v1/users/:id"
func NewWithPrefix(prefix string, opts ...Option) (*Router, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("router configuration validation failed: %w: %q", ErrInvalidPrefix, prefix)
	}
	r.prefix = strings.TrimSuffix(prefix, "/")
	return r, nil
}

// MustNewWithPrefix is NewWithPrefix, panicking on invalid configuration.
func MustNewWithPrefix(prefix string, opts ...Option) *Router {
	r, err := NewWithPrefix(prefix, opts...)
	if err != nil {
		panic(fmt.Sprintf("corsa.MustNewWithPrefix: %v", err))
	}
	return r
}

// Merge creates a router holding the combined route tables of the children,
// in child order. Keys are copied as-is: a child's own prefix is already part
// of its keys and is not re-applied. When two children carry the same key the
// later child wins, at the position the key first appeared.
func Merge(children ...*Router) (*Router, error) {
	r, err := New()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child == nil {
			return nil, ErrNilRouter
		}
		r.table.merge(child.table)
	}
	return r, nil
}

// validate checks the router configuration. Routes are validated at
// registration time, not here.
func (r *Router) validate() error {
	if r.serverTimeouts != nil {
		if err := r.serverTimeouts.validate(); err != nil {
			return err
		}
	}
	return nil
}

// fullPath prepends the router prefix to a route path. A bare "/" route
// contributes no path segment of its own when a prefix is present, so
// NewWithPrefix("/api") + GET("/") registers "GET /api".
func (r *Router) fullPath(path string) string {
	if path == "/" {
		if r.prefix != "" {
			return r.prefix
		}
		return "/"
	}
	return r.prefix + path
}

// Handle registers handlers for an arbitrary method and path template.
// Re-registering the same method and path replaces the prior handler list
// entirely, keeping the route's original position in matching order.
//
// Registration problems (empty method or path, no handlers, a template that
// does not compile) panic: routes are wired at startup and a broken
// declaration is a programming error, not a runtime condition.
func (r *Router) Handle(method, path string, handlers ...HandlerFunc) *Router {
	if len(handlers) == 0 {
		panic(fmt.Sprintf("corsa: register %s %s: %v", method, path, ErrNoHandlers))
	}
	route := r.fullPath(path)
	cr, err := compileRoute(method, route)
	if err != nil {
		panic(fmt.Sprintf("corsa: register %s %s: %v", method, path, err))
	}
	cr.handlers = handlers
	r.table.addRaw(rawRoute{
		key:      cr.method + " " + route,
		method:   cr.method,
		route:    route,
		handlers: handlers,
	})
	r.table.addCompiled(cr)
	return r
}

// GET registers handlers for GET requests on the given path template.
func (r *Router) GET(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodGet, path, handlers...)
}

// POST registers handlers for POST requests on the given path template.
func (r *Router) POST(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodPost, path, handlers...)
}

// PUT registers handlers for PUT requests on the given path template.
func (r *Router) PUT(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodPut, path, handlers...)
}

// PATCH registers handlers for PATCH requests on the given path template.
func (r *Router) PATCH(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodPatch, path, handlers...)
}

// DELETE registers handlers for DELETE requests on the given path template.
func (r *Router) DELETE(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodDelete, path, handlers...)
}

// OPTIONS registers handlers for OPTIONS requests on the given path template.
func (r *Router) OPTIONS(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodOptions, path, handlers...)
}

// HEAD registers handlers for HEAD requests on the given path template.
func (r *Router) HEAD(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodHead, path, handlers...)
}

// TRACE registers handlers for TRACE requests on the given path template.
func (r *Router) TRACE(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodTrace, path, handlers...)
}

// CONNECT registers handlers for CONNECT requests on the given path template.
func (r *Router) CONNECT(path string, handlers ...HandlerFunc) *Router {
	return r.Handle(http.MethodConnect, path, handlers...)
}

// Use appends global middleware, run before every matched route's handlers
// in the order given. Middleware participates in the same chain contract as
// route handlers: call c.Next() to let the chain proceed.
func (r *Router) Use(handlers ...HandlerFunc) *Router {
	r.middleware = append(r.middleware, handlers...)
	return r
}

// Mount merges the children's route tables into this router, keys as-is.
// A child's prefix is already baked into its keys and is not re-applied;
// colliding keys take the child's handlers (last write wins). The children's
// global middleware is not carried over.
func (r *Router) Mount(children ...*Router) *Router {
	for _, child := range children {
		if child == nil {
			panic(fmt.Sprintf("corsa: mount: %v", ErrNilRouter))
		}
		r.table.merge(child.table)
	}
	return r
}

// Prefix returns the router's registration prefix, if any.
func (r *Router) Prefix() string {
	return r.prefix
}

// SetObservabilityRecorder sets the observability recorder used around
// dispatch. Pass nil to disable. Setup-phase only.
func (r *Router) SetObservabilityRecorder(recorder ObservabilityRecorder) {
	r.observability = recorder
}
