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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var (
	// ErrUnknownProvider indicates an unrecognized metrics provider.
	ErrUnknownProvider = errors.New("unknown metrics provider")

	// ErrNoPrometheusHandler indicates Handler was called on a recorder
	// whose provider does not expose a scrape endpoint.
	ErrNoPrometheusHandler = errors.New("scrape handler is only available with the Prometheus provider")

	// ErrNilMeterProvider indicates WithMeterProvider was given nil.
	ErrNilMeterProvider = errors.New("meter provider must not be nil")
)

// Provider selects how recorded metrics are exported.
type Provider string

const (
	// PrometheusProvider exports via a Prometheus registry; scrape the
	// handler returned by Handler. This is the default.
	PrometheusProvider Provider = "prometheus"

	// StdoutProvider periodically prints metrics to stdout. Development use.
	StdoutProvider Provider = "stdout"

	// CustomProvider records against a caller-supplied MeterProvider.
	CustomProvider Provider = "custom"
)

// Recorder records per-request HTTP metrics through OpenTelemetry and
// implements the router's ObservabilityRecorder interface.
//
// Construct with New or MustNew, attach via corsa.WithObservability, and
// Shutdown when done (flushes owned exporters). Safe for concurrent use
// after construction.
type Recorder struct {
	provider       Provider
	serviceName    string
	serviceVersion string
	exportInterval time.Duration

	durationBuckets []float64

	meterProvider metric.MeterProvider
	sdkProvider   *sdkmetric.MeterProvider // owned; nil with CustomProvider
	registry      *prometheus.Registry

	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	responseSize    metric.Int64Histogram

	logger *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

func defaultRecorder() *Recorder {
	return &Recorder{
		provider:        PrometheusProvider,
		serviceName:     "corsa",
		serviceVersion:  "unknown",
		exportInterval:  30 * time.Second,
		durationBuckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		logger:          slog.Default(),
	}
}

// New creates a recorder and initializes its provider and instruments.
func New(opts ...Option) (*Recorder, error) {
	r := defaultRecorder()
	for _, opt := range opts {
		opt(r)
	}
	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("metrics provider initialization failed: %w", err)
	}
	if err := r.initializeInstruments(); err != nil {
		return nil, fmt.Errorf("metrics instrument initialization failed: %w", err)
	}
	return r, nil
}

// MustNew is New, panicking on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}
	return r
}

// Provider returns the configured provider kind.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the configured service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// Handler returns the Prometheus scrape handler. Only the Prometheus
// provider has one.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.provider != PrometheusProvider || r.registry == nil {
		return nil, ErrNoPrometheusHandler
	}
	return promHandler(r.registry), nil
}

// Shutdown flushes and stops the exporters the recorder owns. Recorders
// built on a caller-supplied MeterProvider leave its lifecycle to the
// caller.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		r.logger.Error("metrics provider shutdown failed", slog.Any("error", err))
		return err
	}
	return nil
}

// ForceFlush pushes pending metrics through owned exporters.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	return r.sdkProvider.ForceFlush(ctx)
}
