package transport

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/parley-core/core/transport"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	framesSent, _ = meter.Int64Counter("transport.audio_frames_sent",
		metric.WithDescription("Binary audio frames written to the session connection"))
	framesDropped, _ = meter.Int64Counter("transport.audio_frames_dropped",
		metric.WithDescription("Outbound frames dropped because the connection was not open"))
	controlPayloads, _ = meter.Int64Counter("transport.control_payloads_received",
		metric.WithDescription("Inbound structured payloads decoded into events"))
)
