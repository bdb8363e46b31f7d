package metricspush

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
	"github.com/smallbiznis/payables/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	registry := prometheus.NewRegistry()

	open := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "open_invoices"}, []string{"tier"})
	open.WithLabelValues("OVERDUE").Set(2)
	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "invoices_created_total"})
	created.Add(3)
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "sweep_seconds"})
	latency.Observe(0.2)

	registry.MustRegister(open, created, latency)
	return registry
}

func TestBuildRemoteWriteSeriesSkipsHistograms(t *testing.T) {
	families, err := testRegistry(t).Gather()
	require.NoError(t, err)

	series := buildRemoteWriteSeries(families, 1700000000000)
	require.Len(t, series, 2)

	byName := map[string]prompb.TimeSeries{}
	for _, ts := range series {
		for _, label := range ts.Labels {
			if label.Name == "__name__" {
				byName[label.Value] = ts
			}
		}
	}

	gauge := byName["open_invoices"]
	require.Len(t, gauge.Samples, 1)
	assert.Equal(t, 2.0, gauge.Samples[0].Value)
	assert.Equal(t, int64(1700000000000), gauge.Samples[0].Timestamp)
	assert.Equal(t, []prompb.Label{
		{Name: "__name__", Value: "open_invoices"},
		{Name: "tier", Value: "OVERDUE"},
	}, gauge.Labels)

	counter := byName["invoices_created_total"]
	require.Len(t, counter.Samples, 1)
	assert.Equal(t, 3.0, counter.Samples[0].Value)
}

func TestRemoteWritePusherPostsSnappyProtobuf(t *testing.T) {
	var (
		got     prompb.WriteRequest
		headers http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		raw, err := snappy.Decode(nil, body)
		require.NoError(t, err)
		require.NoError(t, got.Unmarshal(raw))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pusher := NewRemoteWritePusher(srv.URL, "push-token")
	pusher.now = func() time.Time { return time.UnixMilli(1700000000000) }

	require.NoError(t, pusher.Push(context.Background(), testRegistry(t)))
	assert.Equal(t, "snappy", headers.Get("Content-Encoding"))
	assert.Equal(t, "application/x-protobuf", headers.Get("Content-Type"))
	assert.Equal(t, "Bearer push-token", headers.Get("Authorization"))
	assert.Len(t, got.Timeseries, 2)
}

func TestRemoteWritePusherReportsRejectedWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewRemoteWritePusher(srv.URL, "").Push(context.Background(), testRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestNewPusher(t *testing.T) {
	log := zap.NewNop()

	assert.Nil(t, NewPusher(config.Config{}, log))
	assert.Nil(t, NewPusher(config.Config{MetricsPushExporter: ExporterRemoteWrite}, log))
	assert.Nil(t, NewPusher(config.Config{MetricsPushExporter: ExporterRemoteWrite, MetricsPushEndpoint: "not a url"}, log))
	assert.Nil(t, NewPusher(config.Config{MetricsPushExporter: "statsd", MetricsPushEndpoint: "http://sink"}, log))

	rw := NewPusher(config.Config{MetricsPushExporter: ExporterRemoteWrite, MetricsPushEndpoint: "http://sink/api/v1/write"}, log)
	assert.IsType(t, &RemoteWritePusher{}, rw)

	pg := NewPusher(config.Config{AppName: "payables", MetricsPushExporter: ExporterPushgateway, MetricsPushEndpoint: "http://gateway:9091"}, log)
	assert.IsType(t, &PushgatewayPusher{}, pg)
}
