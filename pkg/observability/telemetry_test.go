package observability_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/estate"
	"github.com/plaenen/backoffice/pkg/observability"
	"github.com/plaenen/backoffice/pkg/store"
	"github.com/plaenen/backoffice/pkg/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRepositoryMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	telemetry, err := observability.NewTelemetry(reader)
	require.NoError(t, err)
	ctx := context.Background()
	defer telemetry.Shutdown(ctx)

	eventStore, err := sqlite.NewEventStore(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer eventStore.Close()

	repo := store.NewRepository(eventStore, estate.Factory,
		store.WithMetrics[*estate.Aggregate](telemetry.Metrics))

	e := estate.NewAggregate(uuid.New())
	require.NoError(t, e.Create("Acme Retail"))
	require.NoError(t, e.GenerateReference())
	require.NoError(t, repo.Save(ctx, e))

	_, err = repo.Load(ctx, e.ID())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counters := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, point := range sum.DataPoints {
				counters[m.Name] += point.Value
			}
		}
	}

	assert.Equal(t, int64(1), counters["backoffice.repository.saves"])
	assert.Equal(t, int64(2), counters["backoffice.events.appended"])
	assert.Equal(t, int64(1), counters["backoffice.aggregate.loads"])
	assert.Zero(t, counters["backoffice.repository.conflicts"])
}
