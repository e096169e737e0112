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

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/corsa-dev/corsa"
)

// requestState is the opaque per-request token the router threads through
// the observability lifecycle.
type requestState struct {
	start  time.Time
	method string
}

// responseWriter captures status and size for OnRequestEnd. It implements
// corsa.ResponseInfo.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the status written so far, defaulting to 200.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the bytes written so far.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Compile-time checks against the router's observability contracts.
var (
	_ corsa.ObservabilityRecorder = (*Recorder)(nil)
	_ corsa.ResponseInfo          = (*responseWriter)(nil)
)

// OnRequestStart begins the observability lifecycle for one request. The
// context is returned unenriched; the state token carries the start time.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	return ctx, &requestState{start: time.Now(), method: req.Method}
}

// WrapResponseWriter wraps the writer to capture status and size. With a
// nil state the writer is returned unchanged.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	if state == nil {
		return w
	}
	return &responseWriter{ResponseWriter: w}
}

// OnRequestEnd records the request's instruments. Status and size come from
// the wrapped writer when available; a writer the recorder did not wrap
// records as a 200 with no size.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}
	status := http.StatusOK
	var size int64
	if info, ok := writer.(corsa.ResponseInfo); ok {
		status = info.StatusCode()
		size = info.Size()
	}
	r.recordRequest(ctx, st.method, routePattern, status, size, time.Since(st.start))
}
