package orchestrator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	quotes            metric.Int64Counter
	ordersCreated     metric.Int64Counter
	ordersCancelled   metric.Int64Counter
	idempotentReplays metric.Int64Counter
	historyWrites     metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter("delivery-orchestrator")

	quotes, _ := meter.Int64Counter("orchestrator.quotes.total",
		metric.WithDescription("Price quotes produced"))
	created, _ := meter.Int64Counter("orchestrator.orders.created.total",
		metric.WithDescription("Orders created through the orchestrator"))
	cancelled, _ := meter.Int64Counter("orchestrator.orders.cancelled.total",
		metric.WithDescription("Orders cancelled through the orchestrator"))
	replays, _ := meter.Int64Counter("orchestrator.idempotent.replays.total",
		metric.WithDescription("Create requests answered from the idempotency cache"))
	history, _ := meter.Int64Counter("orchestrator.history.writes.total",
		metric.WithDescription("History write attempts by outcome"))

	return &metrics{
		quotes:            quotes,
		ordersCreated:     created,
		ordersCancelled:   cancelled,
		idempotentReplays: replays,
		historyWrites:     history,
	}
}

func (m *metrics) recordHistory(ctx context.Context, outcome string) {
	m.historyWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
