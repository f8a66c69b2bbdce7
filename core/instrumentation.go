package session

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/koscakluka/parley-core/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	eventsDropped, _ = meter.Int64Counter("session.events.dropped",
		metric.WithDescription("Events discarded because the session loop queue was full"))
	artifactsDropped, _ = meter.Int64Counter("session.artifacts.dropped",
		metric.WithDescription("Voice artifacts with no timeline entry to attach to"))
	chunksEncoded, _ = meter.Int64Counter("session.capture.chunks",
		metric.WithDescription("Captured audio chunks encoded for transmission"))
)
