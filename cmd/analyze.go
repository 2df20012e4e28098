// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/luthersystems/qrca/capabilities"
	"github.com/luthersystems/qrca/fir"
	"github.com/luthersystems/qrca/rca"
)

type storeReport struct {
	Path     string          `json:"path"`
	Packages []packageReport `json:"packages"`
}

type packageReport struct {
	ID             fir.PackageID           `json:"id"`
	Name           string                  `json:"name"`
	Features       rca.RuntimeFeatureFlags `json:"features"`
	MinimalProfile string                  `json:"minimal_profile"`
	Callables      []callableReport        `json:"callables,omitempty"`
}

type callableReport struct {
	Name  string       `json:"name"`
	Kind  string       `json:"kind"`
	Specs []specReport `json:"specs"`
}

type specReport struct {
	Functor string                        `json:"functor"`
	Derived bool                          `json:"derived,omitempty"`
	Source  string                        `json:"source,omitempty"`
	Gen     string                        `json:"gen,omitempty"`
	Cyclic  bool                          `json:"cyclic,omitempty"`
	Set     *rca.ApplicationsGeneratorSet `json:"set,omitempty"`
}

func reportPackage(s *analyzedStore, id fir.PackageID) packageReport {
	pkg := s.Store.Get(id)
	features, minimal := capabilities.Summary(s.Store, s.Props, id)
	r := packageReport{ID: id, Name: pkg.Name, Features: features, MinimalProfile: minimal.Name}
	for _, item := range pkg.Callables() {
		decl := pkg.Callable(item)
		ip := s.Props.Item(fir.StoreItemID{Package: id, Item: item})
		cr := callableReport{Name: decl.Name, Kind: decl.Kind.String()}
		for _, f := range fir.Functors {
			sp := ip.Spec(f)
			if sp == nil {
				continue
			}
			sr := specReport{Functor: f.String(), Derived: sp.Derived, Cyclic: sp.Cyclic}
			if sp.Derived {
				sr.Source = sp.Source.String()
				sr.Gen = sp.Gen.String()
			} else {
				sr.Set = sp.Set
			}
			cr.Specs = append(cr.Specs, sr)
		}
		r.Callables = append(r.Callables, cr)
	}
	return r
}

func writeReportText(w io.Writer, reports []storeReport) error {
	ew := &errWriter{w: w}
	for i, sr := range reports {
		if i > 0 {
			ew.print("\n")
		}
		ew.printf("%s\n", sr.Path)
		for _, pr := range sr.Packages {
			ew.printf("package %s (%d): %s [%s]\n", pr.Name, pr.ID, pr.MinimalProfile, pr.Features)
			for _, cr := range pr.Callables {
				ew.printf("  %s %s\n", cr.Kind, cr.Name)
				for _, spec := range cr.Specs {
					switch {
					case spec.Derived:
						ew.printf("    %s: from %s (%s)\n", spec.Functor, spec.Source, spec.Gen)
					case spec.Cyclic:
						ew.printf("    %s: %s, cyclic, %d applications\n", spec.Functor, spec.Set.Inherent, spec.Set.Len())
					default:
						ew.printf("    %s: %s, %d applications\n", spec.Functor, spec.Set.Inherent, spec.Set.Len())
					}
				}
			}
		}
	}
	return ew.err
}

// errWriter captures the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// AnalyzeCommand returns the analyze command.
func AnalyzeCommand(opts ...Option) *cobra.Command {
	c := newConfig(opts)
	var (
		excludes []string
		packages []string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [flags] store.yaml... | dir/...",
		Short: "Show the compute properties of every callable",
		Long: `Show the compute properties of every callable.

For each package the report lists the runtime features the package uses,
the least capable target profile able to run it, and for each callable
specialization its inherent compute kind and the number of dynamic
parameter applications recorded.  Derived specializations name the
specialization their results are taken from.

With --json the full applications generator sets are written.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(args, excludes)
			if err != nil {
				return usageError(err)
			}
			aopts, err := c.analyzerOptions(cmd.ErrOrStderr())
			if err != nil {
				return usageError(err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			stores, err := analyzeFiles(ctx, paths, aopts)
			if err != nil {
				return usageError(err)
			}
			reports := make([]storeReport, 0, len(stores))
			for _, s := range stores {
				ids, err := s.packages(packages)
				if err != nil {
					return usageError(err)
				}
				sr := storeReport{Path: s.Path}
				for _, id := range ids {
					sr.Packages = append(sr.Packages, reportPackage(s, id))
				}
				reports = append(reports, sr)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			return writeReportText(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the report as JSON.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for store files to exclude (may be repeated).")
	cmd.Flags().StringSliceVar(&packages, "package", nil,
		"Names of the packages to report (default: all).")
	return cmd
}
