package txroute

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gabapcia/mempart/internal/txroute"

// instruments records poll loop activity. The zero value is not usable;
// build it with newInstruments.
type instruments struct {
	tracer trace.Tracer

	fetched      metric.Int64Counter
	routed       metric.Int64Counter
	skipped      metric.Int64Counter
	failedCycles metric.Int64Counter
	watermark    metric.Int64Gauge
}

// newInstruments creates the loop's instruments from the global providers.
// Instruments that cannot be created fall back to no-ops.
func newInstruments() instruments {
	meter := otel.Meter(instrumentationName)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{transaction}"))
		if err != nil {
			otel.Handle(err)
			return noop.Int64Counter{}
		}
		return c
	}

	failed, err := meter.Int64Counter("mempart.cycles.failed",
		metric.WithDescription("Poll cycles that ended with an error."),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		otel.Handle(err)
		failed = noop.Int64Counter{}
	}

	watermark, err := meter.Int64Gauge("mempart.watermark",
		metric.WithDescription("Highest accept time processed."),
	)
	if err != nil {
		otel.Handle(err)
		watermark = noop.Int64Gauge{}
	}

	return instruments{
		tracer:       otel.Tracer(instrumentationName),
		fetched:      counter("mempart.transactions.fetched", "Transactions read from the mempool."),
		routed:       counter("mempart.transactions.routed", "Transactions merged into a partition."),
		skipped:      counter("mempart.transactions.skipped", "Fetched transactions already in the archive."),
		failedCycles: failed,
		watermark:    watermark,
	}
}

func (i instruments) recordWatermark(ctx context.Context, watermark uint64) {
	i.watermark.Record(ctx, int64(watermark))
}

// partitionAttr only tells the sentinel partition apart; contract names are
// unbounded and never become attribute values.
func partitionAttr(key string) metric.AddOption {
	return metric.WithAttributes(attribute.Bool("partition.sentinel", key == SentinelPartitionKey))
}
