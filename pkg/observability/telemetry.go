package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Telemetry bundles the SDK meter provider with the framework metrics.
type Telemetry struct {
	MeterProvider *sdkmetric.MeterProvider
	Metrics       *Metrics
}

// NewTelemetry creates a meter provider with the given readers and registers
// it globally. Pass a sdkmetric.ManualReader in tests to read counters
// synchronously.
func NewTelemetry(readers ...sdkmetric.Reader) (*Telemetry, error) {
	opts := make([]sdkmetric.Option, 0, len(readers))
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	metrics, err := NewMetrics(provider.Meter("github.com/plaenen/backoffice"))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return &Telemetry{
		MeterProvider: provider,
		Metrics:       metrics,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.MeterProvider.Shutdown(ctx)
}
