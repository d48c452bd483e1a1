package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordUpdate(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordUpdate(ctx, "applied")
	m.RecordUpdate(ctx, "applied")
	m.RecordUpdate(ctx, "stale")

	met := findMetric(t, reader, "eud4xr.updates")
	require.NotNil(t, met)
	sum, ok := met.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("outcome"))
		counts[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"applied": 2, "stale": 1}, counts)
}

func TestFailedQueueGauge(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.AddFailed(ctx, 2)
	m.AddFailed(ctx, -1)

	met := findMetric(t, reader, "eud4xr.failed_updates")
	require.NotNil(t, met)
	sum := met.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}

func TestNoopAndLogger(t *testing.T) {
	Noop().RecordOutbound(context.Background(), "unity", "ok")

	l, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
