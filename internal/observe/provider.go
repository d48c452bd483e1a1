package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitProvider installs a global meter provider backed by the Prometheus
// exporter, so instruments can be scraped from /metrics. The returned
// function flushes and shuts the provider down.
func InitProvider() (*Metrics, func(context.Context) error, error) {
	promExp, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExp))
	otel.SetMeterProvider(mp)

	m, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, nil, err
	}
	return m, mp.Shutdown, nil
}
