// Copyright © 2024 The ELPS authors

package rca_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/luthersystems/qrca/fir"
	"github.com/luthersystems/qrca/rca"
	"github.com/luthersystems/qrca/rcatest"
)

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestAnalyzerTelemetry(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
		assert.NoError(t, mp.Shutdown(context.Background()), "MeterProvider shutdown")
	})

	ctx := context.Background()
	store, core := rcatest.NewStore()
	a := rca.New(store,
		rca.WithLogger(rcatest.Slog(t)),
		rca.WithTracerProvider(tp),
		rca.WithMeterProvider(mp))
	a.AnalyzeAll(ctx)
	a.UpdatePackage(ctx, buildUser(store, core, nil, true, true))

	var names []string
	for _, span := range exporter.GetSpans() {
		names = append(names, span.Name)
	}
	assert.Equal(t, []string{"rca.AnalyzePackage", "rca.AnalyzePackage", "rca.UpdatePackage"}, names)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(2), sumCounter(t, rm, "rca_packages_analyzed_total"))
	assert.Greater(t, sumCounter(t, rm, "rca_specializations_analyzed_total"), int64(len(core.Package.Items)-1))
	assert.Equal(t, int64(0), sumCounter(t, rm, "rca_cycles_detected_total"))
}

func TestCycleCountedOnce(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		assert.NoError(t, mp.Shutdown(context.Background()), "MeterProvider shutdown")
	})

	store, _ := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	rec, n := b.DeclareCallable(op, "Rec", []fir.Param{{Name: "n", Ty: fir.TyInt}}, fir.TyUnit, fir.FunctorSetEmpty)
	recur := b.SemiStmt(b.Call(b.LocalItemVar(rec), b.BinOp(fir.BinOpSub, b.Var(n[0]), b.Int(1))))
	cond := b.BinOp(fir.BinOpGt, b.Var(n[0]), b.Int(0))
	b.Spec(rec, fir.FunctorBody, b.Block(b.ExprStmt(b.If(cond, b.BlockExpr(b.Block(recur)), fir.NoExpr))))
	require.NoError(t, store.Insert(b.Package()))

	ctx := context.Background()
	props := rca.New(store, rca.WithLogger(rcatest.Slog(t)), rca.WithMeterProvider(mp)).AnalyzeAll(ctx)
	require.True(t, props.SpecProperties(body(rec)).Cyclic)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(1), sumCounter(t, rm, "rca_cycles_detected_total"))
}
