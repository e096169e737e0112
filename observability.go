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
)

// ObservabilityRecorder provides lifecycle hooks around request dispatch.
// Implementations typically record metrics or access logs.
//
// Lifecycle:
//  1. OnRequestStart(ctx, req) → (enrichedCtx, state). The enriched context
//     is always attached to the request. A nil state excludes the request:
//     no writer wrapping, no OnRequestEnd.
//  2. WrapResponseWriter(w, state) wraps the writer to capture response
//     metadata; the wrapped writer should implement ResponseInfo.
//  3. OnRequestEnd(ctx, state, writer, routePattern) after dispatch. The
//     routePattern is the matched template, or the "_not_found" /
//     "_method_not_allowed" sentinels — use it (not the raw path) for
//     metric labels to keep cardinality bounded.
//
// All methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter
	OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string)
}

// ResponseInfo is implemented by response writers that track response
// metadata, letting OnRequestEnd extract status and size from the writer it
// is handed.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}
