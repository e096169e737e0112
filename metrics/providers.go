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
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// initializeProvider builds the MeterProvider for the configured provider
// kind. Custom providers are used as-is; Prometheus and stdout providers
// are owned by the recorder and shut down with it.
func (r *Recorder) initializeProvider() error {
	switch r.provider {
	case CustomProvider:
		if r.meterProvider == nil {
			return ErrNilMeterProvider
		}
		return nil
	case PrometheusProvider:
		return r.initPrometheusProvider()
	case StdoutProvider:
		return r.initStdoutProvider()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, r.provider)
	}
}

func (r *Recorder) initPrometheusProvider() error {
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}
	exporter, err := otelprom.New(otelprom.WithRegisterer(r.registry))
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(r.newResource()),
	)
	r.sdkProvider = provider
	r.meterProvider = provider
	return nil
}

func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("create stdout exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
		sdkmetric.WithResource(r.newResource()),
	)
	r.sdkProvider = provider
	r.meterProvider = provider
	return nil
}

func (r *Recorder) newResource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	)
}

func promHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
