package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/version"
)

const stdoutEndpoint = "stdout"

type Telemetry struct {
	ctx      context.Context
	shutdown []func(context.Context) error
}

func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	var err error
	for _, f := range t.shutdown {
		err = errors.Join(err, f(ctx))
	}
	if err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}

func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	ret := &Telemetry{ctx: ctx}
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName("ff1"),
			semconv.ServiceVersion(version.Version),
		))
	if err != nil {
		return nil, err
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	tp, err := newTraceProvider(ctx, res)
	if err != nil {
		return nil, err
	}
	ret.shutdown = append(ret.shutdown, tp.Shutdown)
	otel.SetTracerProvider(tp)

	mp, err := newMeterProvider(ctx, res)
	if err != nil {
		ret.Shutdown()
		return nil, err
	}
	ret.shutdown = append(ret.shutdown, mp.Shutdown)
	otel.SetMeterProvider(mp)
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func newTraceProvider(ctx context.Context, res *resource.Resource) (
	*trace.TracerProvider, error,
) {
	var exporter trace.SpanExporter
	var err error
	if TelemetryEndpoint == stdoutEndpoint {
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	} else {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(TelemetryEndpoint),
			otlptracegrpc.WithInsecure())
	}
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	), nil
}

//nolint:whitespace // editor/linter issue
func newMeterProvider(ctx context.Context, res *resource.Resource) (
	*metric.MeterProvider, error,
) {
	var exporter metric.Exporter
	var err error
	if TelemetryEndpoint == stdoutEndpoint {
		exporter, err = stdoutmetric.New()
	} else {
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(TelemetryEndpoint),
			otlpmetricgrpc.WithInsecure())
	}
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithInterval(15*time.Second))),
	), nil
}
