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
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
)

// WithPrometheus selects the Prometheus provider (the default).
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithPrometheusRegistry selects the Prometheus provider backed by the given
// registry instead of a fresh one. Useful when the process already exposes a
// registry.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.registry = registry
	}
}

// WithStdout selects the periodic stdout provider.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithMeterProvider records against a caller-supplied MeterProvider whose
// lifecycle the caller keeps.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.provider = CustomProvider
		r.meterProvider = provider
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		if name != "" {
			r.serviceName = name
		}
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		if version != "" {
			r.serviceVersion = version
		}
	}
}

// WithExportInterval sets the stdout provider's export period.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		if interval > 0 {
			r.exportInterval = interval
		}
	}
}

// WithDurationBuckets overrides the request-duration histogram boundaries,
// in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.durationBuckets = buckets
		}
	}
}

// WithLogger sets the logger used for recorder diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
