// Copyright © 2024 The ELPS authors

package rca

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/luthersystems/qrca/fir"
)

// Analyzer computes runtime capability results for the packages of a
// store.  An Analyzer is not safe for concurrent use; published results
// are read-only and may be shared.
type Analyzer struct {
	store  *fir.PackageStore
	props  *PackageStoreComputeProperties
	logger *slog.Logger
	tel    *telemetry

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithTracerProvider sets the tracer provider.  The global provider is
// used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Analyzer) {
		a.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider.  The global provider is used
// by default.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(a *Analyzer) {
		a.meterProvider = mp
	}
}

// New returns an Analyzer for store.  No package is analyzed until
// requested.
func New(store *fir.PackageStore, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:  store,
		props:  newPackageStoreComputeProperties(store),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.tel = newTelemetry(a.tracerProvider, a.meterProvider, a.logger)
	return a
}

// Analyze runs a new Analyzer over every package of store.
func Analyze(ctx context.Context, store *fir.PackageStore, opts ...Option) *PackageStoreComputeProperties {
	return New(store, opts...).AnalyzeAll(ctx)
}

// Store returns the package store being analyzed.
func (a *Analyzer) Store() *fir.PackageStore {
	return a.store
}

// Results returns the published results.
func (a *Analyzer) Results() *PackageStoreComputeProperties {
	return a.props
}

// AnalyzeAll analyzes every package not yet analyzed, dependencies first.
// It panics when the package dependency graph is not acyclic.
func (a *Analyzer) AnalyzeAll(ctx context.Context) *PackageStoreComputeProperties {
	for _, id := range a.order() {
		if !a.props.IsDone(id) {
			a.analyzePackage(ctx, id)
		}
	}
	return a.props
}

// AnalyzePackage analyzes id and any of its transitive dependencies not
// yet analyzed.
func (a *Analyzer) AnalyzePackage(ctx context.Context, id fir.PackageID) {
	if a.store.Get(id) == nil {
		panic(fmt.Sprintf("rca: unknown package %d", id))
	}
	needed := map[fir.PackageID]bool{id: true}
	queue := []fir.PackageID{id}
	for len(queue) > 0 {
		pkg := a.store.Get(queue[0])
		queue = queue[1:]
		for _, dep := range pkg.Dependencies {
			if !needed[dep] {
				needed[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	for _, pid := range a.order() {
		if needed[pid] && !a.props.IsDone(pid) {
			a.analyzePackage(ctx, pid)
		}
	}
}

// UpdatePackage replaces or inserts pkg, clears its previous results and
// analyzes it again.  Results of other packages are kept.  Updating a
// package that an analyzed package depends on is not supported and
// panics: the dependents would hold stale results.
func (a *Analyzer) UpdatePackage(ctx context.Context, pkg *fir.Package) {
	ctx, span := a.tel.tracer.Start(ctx, "rca.UpdatePackage",
		trace.WithAttributes(packageAttrs(pkg)...))
	defer span.End()

	for _, dep := range a.store.Dependents(pkg.ID) {
		if a.props.IsDone(dep) {
			panic(fmt.Sprintf("rca: cannot update package %d: package %d depends on it", pkg.ID, dep))
		}
	}
	var err error
	if a.store.Get(pkg.ID) == nil {
		err = a.store.Insert(pkg)
	} else {
		err = a.store.Replace(pkg)
	}
	if err != nil {
		panic(fmt.Sprintf("rca: %v", err))
	}
	a.props.clear(pkg.ID)
	a.logger.Debug("cleared package results", slog.Int("package", int(pkg.ID)), slog.String("name", pkg.Name))
	a.AnalyzePackage(ctx, pkg.ID)
}

func (a *Analyzer) order() []fir.PackageID {
	order, err := a.store.TopoOrder()
	if err != nil {
		panic(fmt.Sprintf("rca: %v", err))
	}
	return order
}

// packageRun is the state of analyzing a single package.
type packageRun struct {
	ctx      context.Context
	a        *Analyzer
	pkg      *fir.Package
	scaffold *Scaffolding
}

func (a *Analyzer) analyzePackage(ctx context.Context, id fir.PackageID) {
	pkg := a.store.Get(id)
	for _, dep := range pkg.Dependencies {
		if !a.props.IsDone(dep) {
			panic(fmt.Sprintf("rca: package %d analyzed before its dependency %d", id, dep))
		}
	}
	ctx, span := a.tel.tracer.Start(ctx, "rca.AnalyzePackage",
		trace.WithAttributes(packageAttrs(pkg)...))
	defer span.End()
	a.logger.Debug("analyzing package", slog.Int("package", int(id)), slog.String("name", pkg.Name))

	a.props.status[id] = InProgress
	r := &packageRun{ctx: ctx, a: a, pkg: pkg, scaffold: newScaffolding(id)}
	for _, item := range pkg.Items {
		if item != nil {
			r.analyzeItem(item)
		}
	}
	r.analyzeTopLevel()

	cyclic := 0
	for _, st := range r.scaffold.specs {
		if st.cyclic {
			cyclic++
		}
	}
	a.props.publish(id, r.scaffold.props)
	span.SetAttributes(
		attribute.Int("rca.package.items", len(pkg.Items)),
		attribute.Int("rca.package.cyclic", cyclic))
	a.tel.packageDone(ctx, pkg)
	a.logger.Debug("analyzed package",
		slog.Int("package", int(id)),
		slog.Int("items", len(pkg.Items)),
		slog.Int("cyclic", cyclic))
}

// analyzeTopLevel walks the top-level statements and the entry
// expression in one inherent context.
func (r *packageRun) analyzeTopLevel() {
	if len(r.pkg.TopLevel) == 0 && r.pkg.Entry == fir.NoExpr {
		return
	}
	w := r.newWalker()
	for _, s := range r.pkg.TopLevel {
		w.stmt(s)
	}
	if r.pkg.Entry != fir.NoExpr {
		w.expr(r.pkg.Entry)
	}
	r.scaffold.flush(w.rec, nil, nil)
}
