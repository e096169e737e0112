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

import "errors"

var (
	// ErrInvalidPrefix indicates that a router prefix does not start with "/".
	ErrInvalidPrefix = errors.New("router prefix must start with \"/\"")

	// ErrEmptyMethod indicates that a route was registered without an HTTP method.
	ErrEmptyMethod = errors.New("route method must not be empty")

	// ErrEmptyPath indicates that a route was registered with an empty path.
	ErrEmptyPath = errors.New("route path must not be empty")

	// ErrNoHandlers indicates that a route was registered without handlers.
	ErrNoHandlers = errors.New("route must have at least one handler")

	// ErrInvalidPattern indicates that a path template did not compile.
	ErrInvalidPattern = errors.New("path template did not compile")

	// ErrServerTimeoutInvalid indicates that a server timeout value is not positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrInvalidProxyCIDR indicates that a trusted proxy CIDR could not be parsed.
	ErrInvalidProxyCIDR = errors.New("invalid trusted proxy CIDR")

	// ErrNilRouter indicates that a nil child router was passed to Merge or Mount.
	ErrNilRouter = errors.New("child router must not be nil")
)
