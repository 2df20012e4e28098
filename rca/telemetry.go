// Copyright © 2024 The ELPS authors

package rca

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/luthersystems/qrca/fir"
)

const instrumentationName = "qrca.rca"

// telemetry bundles the tracer and counters of an Analyzer.  Counters that
// fail to register are left nil and skipped.
type telemetry struct {
	tracer   trace.Tracer
	packages metric.Int64Counter
	specs    metric.Int64Counter
	cycles   metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider, logger *slog.Logger) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}
	meter := mp.Meter(instrumentationName)
	var err error
	t.packages, err = meter.Int64Counter("rca_packages_analyzed_total",
		metric.WithDescription("Packages analyzed"))
	if err != nil {
		logger.Warn("failed to create counter", "name", "rca_packages_analyzed_total", "error", err)
	}
	t.specs, err = meter.Int64Counter("rca_specializations_analyzed_total",
		metric.WithDescription("Callable specializations analyzed"))
	if err != nil {
		logger.Warn("failed to create counter", "name", "rca_specializations_analyzed_total", "error", err)
	}
	t.cycles, err = meter.Int64Counter("rca_cycles_detected_total",
		metric.WithDescription("Call cycles detected between specializations"))
	if err != nil {
		logger.Warn("failed to create counter", "name", "rca_cycles_detected_total", "error", err)
	}
	return t
}

func packageAttrs(pkg *fir.Package) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("rca.package.id", int(pkg.ID)),
		attribute.String("rca.package.name", pkg.Name),
	}
}

func (t *telemetry) packageDone(ctx context.Context, pkg *fir.Package) {
	if t.packages != nil {
		t.packages.Add(ctx, 1, metric.WithAttributes(packageAttrs(pkg)...))
	}
}

func (t *telemetry) specDone(ctx context.Context, kind fir.CallableKind) {
	if t.specs != nil {
		t.specs.Add(ctx, 1, metric.WithAttributes(attribute.String("rca.callable.kind", kind.String())))
	}
}

func (t *telemetry) cycleFound(ctx context.Context, size int) {
	if t.cycles != nil {
		t.cycles.Add(ctx, 1, metric.WithAttributes(attribute.Int("rca.cycle.size", size)))
	}
}
