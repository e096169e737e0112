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

// Package metrics provides an OpenTelemetry request-metrics recorder that
// plugs into the router as its ObservabilityRecorder.
//
// The recorder tracks three instruments per request: a request counter, a
// duration histogram and a response-size histogram, labeled with the HTTP
// method, the matched route template and the response status. Route
// templates (not raw paths) keep label cardinality bounded.
//
// Three providers are supported: Prometheus (default; scrape the handler
// returned by Handler), periodic stdout export, and a caller-supplied
// metric.MeterProvider.
//
//	rec := metrics.MustNew(metrics.WithServiceName("orders"))
//	r := corsa.MustNew(corsa.WithObservability(rec))
//	http.Handle("/metrics", rec.Handler())
package metrics
