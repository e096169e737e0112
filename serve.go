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
	"context"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Serve starts an HTTP/1.1 server on addr, upgraded to HTTP/2 cleartext when
// the router was built with WithH2C. It blocks until the server exits; use
// Shutdown from another goroutine for graceful termination.
//
// The server runs with the configured (or default) timeouts; see
// WithServerTimeouts.
//
// Example:
//
//	r := corsa.MustNew()
//	r.GET("/", func(c *corsa.Context) error {
//	    return c.SendString("hello")
//	})
//
//	go func() {
//	    if err := r.Serve(":8080"); err != nil && err != http.ErrServerClosed {
//	        log.Fatal(err)
//	    }
//	}()
func (r *Router) Serve(addr string) error {
	h := http.Handler(r)
	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}
	srv := r.newServer(addr, h)
	return srv.ListenAndServe()
}

// ServeTLS starts an HTTPS server on addr. HTTP/2 is negotiated
// automatically via ALPN; no h2c configuration applies here.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	srv := r.newServer(addr, r)
	return srv.ListenAndServeTLS(certFile, keyFile)
}

// Shutdown gracefully shuts down a server started by Serve or ServeTLS
// without interrupting active connections. Returns nil when no server is
// running.
func (r *Router) Shutdown(ctx context.Context) error {
	r.serverMu.Lock()
	srv := r.server
	r.server = nil
	r.serverMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (r *Router) newServer(addr string, h http.Handler) *http.Server {
	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}
	r.serverMu.Lock()
	r.server = srv
	r.serverMu.Unlock()
	return srv
}
