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
	"time"
)

// WithVerbose toggles request-lifecycle logging: one entry line when dispatch
// starts and one exit line with the elapsed wall-clock duration when it ends.
// Purely observational; control flow is unaffected.
func WithVerbose(verbose bool) Option {
	return func(r *Router) {
		r.verbose = verbose
	}
}

// WithStrictSlash sets the strict trailing-slash flag.
//
// The flag is accepted and stored but is not consulted by the matching logic;
// it is reserved until trailing-slash sensitivity has a defined behavior.
func WithStrictSlash(strict bool) Option {
	return func(r *Router) {
		r.strictSlash = strict
	}
}

// WithLogger sets the logger used for verbose dispatch logging and handed to
// handlers via Context.Logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObservability sets the observability recorder used around dispatch.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithH2C enables HTTP/2 cleartext support on Serve.
//
// Only use in development or behind a trusted load balancer; do not enable on
// public-facing servers without TLS. ServeTLS negotiates HTTP/2 via ALPN and
// does not need this.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func (t *serverTimeouts) validate() error {
	for _, d := range []time.Duration{t.readHeader, t.read, t.write, t.idle} {
		if d <= 0 {
			return ErrServerTimeoutInvalid
		}
	}
	return nil
}

// defaultServerTimeouts returns the timeouts used when none are configured.
func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// WithServerTimeouts configures the HTTP server timeouts used by Serve and
// ServeTLS. All four values must be positive.
//
// Defaults if not set: ReadHeaderTimeout 5s, ReadTimeout 15s,
// WriteTimeout 30s, IdleTimeout 60s.
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}
