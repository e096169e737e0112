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
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/corsa-dev/corsa/metrics"

// initializeInstruments creates the three request instruments on the
// configured provider.
func (r *Recorder) initializeInstruments() error {
	meter := r.meterProvider.Meter(meterName)

	var err error
	r.requestsTotal, err = meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total HTTP requests processed, by method, route and status."),
	)
	if err != nil {
		return err
	}
	r.requestDuration, err = meter.Float64Histogram(
		"http_server_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return err
	}
	r.responseSize, err = meter.Int64Histogram(
		"http_server_response_size_bytes",
		metric.WithDescription("HTTP response size in bytes."),
		metric.WithUnit("By"),
	)
	return err
}

// recordRequest records one completed request.
func (r *Recorder) recordRequest(ctx context.Context, method, route string, status int, size int64, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
		attribute.String("http.response.status_class", statusClass(status)),
	)
	r.requestsTotal.Add(ctx, 1, attrs)
	r.requestDuration.Record(ctx, elapsed.Seconds(), attrs)
	if size > 0 {
		r.responseSize.Record(ctx, size, attrs)
	}
}

// statusClass buckets a status code into its class label ("2xx", "4xx", ...).
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
