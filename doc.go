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

// Package corsa is a small HTTP routing library with first-registered-wins
// route matching, explicit-continuation handler chains, and lifecycle events.
//
// Routes are declared as "METHOD /path/:param" templates. Each template is
// compiled once at registration and tried against incoming requests in strict
// registration order; the first structural match wins. There is no specificity
// ranking and no longest-match preference, which makes registration order part
// of the routing contract:
//
//	r := corsa.MustNew()
//	r.GET("/users/me", currentUser)    // must come before the parameterized route
//	r.GET("/users/:id", userByID)
//
// Handlers receive a *Context wrapping the native request and response, and
// signal chain control explicitly: c.Next() lets the chain proceed, c.Fail(err)
// stops it and fires the "error" lifecycle event, and returning a non-nil error
// stops it, fires the event, and propagates the error to the dispatcher's
// caller. A handler that does none of the three simply ends the chain where it
// stands.
//
//	r.GET("/users/:id", func(c *corsa.Context) error {
//	    return c.JSON(map[string]string{"id": c.Param("id")})
//	})
//
// Requests whose path matches no template produce a plain-text 404; requests
// whose path matches only under another method produce a plain-text 405. Both
// outcomes, and handler errors, are observable through AddEventListener.
//
// The router serves HTTP/1.1 directly, HTTP/2 over TLS via ALPN (ServeTLS),
// and HTTP/2 cleartext when enabled with WithH2C (Serve).
//
// Route registration and event subscription are setup-phase operations: they
// must complete before the router starts serving. Mutating the route table or
// the listener set while requests are in flight is unsupported.
package corsa
