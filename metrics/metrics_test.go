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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/corsa-dev/corsa"
)

func TestNewDefaultsToPrometheus(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	assert.Equal(t, PrometheusProvider, r.Provider())
	assert.Equal(t, "corsa", r.ServiceName())

	h, err := r.Handler()
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestNewWithOptions(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	r, err := New(
		WithPrometheusRegistry(registry),
		WithServiceName("orders"),
		WithServiceVersion("1.2.3"),
		WithDurationBuckets(0.1, 1, 10),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	assert.Equal(t, "orders", r.ServiceName())
	assert.Equal(t, []float64{0.1, 1, 10}, r.durationBuckets)
	assert.Same(t, registry, r.registry)
}

func TestNewWithCustomProvider(t *testing.T) {
	t.Parallel()
	r, err := New(WithMeterProvider(noop.NewMeterProvider()))
	require.NoError(t, err)

	assert.Equal(t, CustomProvider, r.Provider())
	_, err = r.Handler()
	assert.ErrorIs(t, err, ErrNoPrometheusHandler)

	assert.NoError(t, r.Shutdown(context.Background()),
		"caller-owned providers are not shut down by the recorder")
}

func TestNewWithNilMeterProvider(t *testing.T) {
	t.Parallel()
	_, err := New(WithMeterProvider(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilMeterProvider)
}

func TestNewWithUnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := New(func(r *Recorder) { r.provider = Provider("bogus") })
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestMustNewPanicsOnError(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustNew(WithMeterProvider(nil)) })
}

func TestStatusClass(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
	assert.Equal(t, "unknown", statusClass(0))
	assert.Equal(t, "unknown", statusClass(700))
}

func TestLifecycleStateAndWriter(t *testing.T) {
	t.Parallel()
	r := MustNew(WithMeterProvider(noop.NewMeterProvider()))

	ctx, state := r.OnRequestStart(context.Background(), httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NotNil(t, state)
	assert.Equal(t, context.Background(), ctx, "context passes through unenriched")

	rec := httptest.NewRecorder()
	w := r.WrapResponseWriter(rec, state)
	require.NotSame(t, http.ResponseWriter(rec), w)

	info, ok := w.(corsa.ResponseInfo)
	require.True(t, ok)

	w.WriteHeader(http.StatusCreated)
	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusCreated, info.StatusCode())
	assert.Equal(t, int64(5), info.Size())

	// Recording against a noop provider must not panic.
	r.OnRequestEnd(ctx, state, w, "/x")
}

func TestWrapResponseWriterNilState(t *testing.T) {
	t.Parallel()
	r := MustNew(WithMeterProvider(noop.NewMeterProvider()))
	rec := httptest.NewRecorder()
	assert.Same(t, http.ResponseWriter(rec), r.WrapResponseWriter(rec, nil))
}

func TestResponseWriterDefaultsTo200OnWrite(t *testing.T) {
	t.Parallel()
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	_, err := rw.Write([]byte("body"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.StatusCode())
}

func TestRecorderEndToEndWithRouter(t *testing.T) {
	t.Parallel()
	recorder, err := New(WithServiceName("test-service"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Shutdown(context.Background()) })

	router := corsa.MustNew(corsa.WithObservability(recorder))
	router.GET("/users/:id", func(c *corsa.Context) error {
		return c.JSON(map[string]string{"id": c.Param("id")})
	})

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	scrape, err := recorder.Handler()
	require.NoError(t, err)

	sreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	sres := httptest.NewRecorder()
	scrape.ServeHTTP(sres, sreq)

	require.Equal(t, http.StatusOK, sres.Code)
	body := sres.Body.String()
	assert.Contains(t, body, "http_server_requests", "the counter reaches the scrape output")
	assert.Contains(t, body, `http_route="/users/:id"`, "labeled by template, not path")
}

func TestWithExportIntervalGuard(t *testing.T) {
	t.Parallel()
	r := defaultRecorder()
	WithExportInterval(-time.Second)(r)
	assert.Equal(t, 30*time.Second, r.exportInterval, "non-positive intervals are ignored")
	WithExportInterval(5 * time.Second)(r)
	assert.Equal(t, 5*time.Second, r.exportInterval)
}
