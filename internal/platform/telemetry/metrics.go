package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/jsamuelsen/bookstore-service/telemetry"

var (
	mappingFailures     metric.Int64Counter
	mappingFailuresOnce sync.Once
)

// RecordMappingFailure counts a request rejected by the inbound mapper.
// kind is the mapping error kind, e.g. "invalid_identifier".
func RecordMappingFailure(ctx context.Context, kind string) {
	mappingFailuresOnce.Do(func() {
		counter, err := otel.Meter(instrumentationName).Int64Counter(
			"bookstore.mapping.failures",
			metric.WithDescription("Requests rejected while mapping wire payloads to domain values"),
		)
		if err != nil {
			otel.Handle(err)
			return
		}

		mappingFailures = counter
	})

	if mappingFailures == nil {
		return
	}

	mappingFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
