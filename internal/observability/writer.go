package observability

import (
	"context"
	"time"

	"github.com/ValerySidorin/smppc/connector/writer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WrapWriter decorates w with latency metrics and write spans when the
// respective pipeline is enabled.
func WrapWriter(w writer.Writer, connectorName string) writer.Writer {
	if MetricsEnabled() {
		w = &metricsWriterDecorator{w: w, connectorName: connectorName}
	}
	if TracingEnabled() {
		w = &otelWriterDecorator{w: w, connectorName: connectorName}
	}
	return w
}

type metricsWriterDecorator struct {
	w             writer.Writer
	connectorName string
}

func (d *metricsWriterDecorator) Write(ctx context.Context, msg []byte, callback func(err error)) {
	start := time.Now()
	d.w.Write(ctx, msg, func(err error) {
		IncCommand("forwarded", d.connectorName)
		if err != nil {
			IncError("forward", d.connectorName)
		}
		ObserveWriteLatency(d.connectorName, time.Since(start))
		if callback != nil {
			callback(err)
		}
	})
}

func (d *metricsWriterDecorator) Flush(ctx context.Context) error {
	err := d.w.Flush(ctx)
	if err != nil {
		IncError("flush", d.connectorName)
	}
	return err
}

func (d *metricsWriterDecorator) Endpoint() string {
	return d.w.Endpoint()
}

func (d *metricsWriterDecorator) Close() error {
	return d.w.Close()
}

type otelWriterDecorator struct {
	w             writer.Writer
	connectorName string
}

func (d *otelWriterDecorator) Write(ctx context.Context, msg []byte, callback func(err error)) {
	var span trace.Span
	ctx, span = Tracer().Start(ctx, "writer.write", trace.WithSpanKind(trace.SpanKindProducer))
	span.SetAttributes(
		attribute.String("connector", d.connectorName),
		attribute.Int("message.size", len(msg)),
	)
	d.w.Write(ctx, msg, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if callback != nil {
			callback(err)
		}
	})
}

func (d *otelWriterDecorator) Flush(ctx context.Context) error {
	var span trace.Span
	ctx, span = Tracer().Start(ctx, "writer.flush")
	span.SetAttributes(attribute.String("connector", d.connectorName))
	defer span.End()
	return d.w.Flush(ctx)
}

func (d *otelWriterDecorator) Endpoint() string {
	return d.w.Endpoint()
}

func (d *otelWriterDecorator) Close() error {
	return d.w.Close()
}
