// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/luthersystems/qrca/capabilities"
)

const defaultTarget = "adaptive_ri"

// CheckCommand returns the check command.
func CheckCommand(opts ...Option) *cobra.Command {
	c := newConfig(opts)
	var (
		excludes []string
		packages []string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "check [flags] store.yaml... | dir/...",
		Short: "Check programs against the capabilities of a target profile",
		Long: `Check programs against the capabilities of a target profile.

Each store is analyzed and every use of a runtime feature the target
profile does not support is reported at the source location that
introduces it.  A feature is reported once, where it first appears:
a callable that needs a feature reports it inside its body, not at
every call site within the same package.

Exit codes:
  0  The program fits the target profile
  1  One or more unsupported features were reported
  2  Bad invocation (invalid flags, unreadable stores)

Examples:
  qrca check --target base store.yaml            # Strictest target
  qrca check --target adaptive_rif ./...         # Every store in a tree
  qrca check --package user store.yaml           # Only the package "user"
  qrca check --json store.yaml                   # Diagnostics as JSON`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := capabilities.ParseProfile(c.v.GetString("target"))
			if err != nil {
				return usageError(err)
			}
			paths, err := expandArgs(args, excludes)
			if err != nil {
				return usageError(err)
			}
			if len(paths) == 0 {
				return usageError(errors.New("no store files to check"))
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

			var diags []capabilities.Diagnostic
			for _, s := range stores {
				ids, err := s.packages(packages)
				if err != nil {
					return usageError(err)
				}
				for _, id := range ids {
					diags = append(diags, capabilities.Check(s.Store, s.Props, id, profile)...)
				}
			}

			if asJSON {
				if err := capabilities.FormatJSON(cmd.OutOrStdout(), diags); err != nil {
					return usageError(err)
				}
			} else if len(diags) > 0 {
				r, err := c.newRenderer(sources(stores))
				if err != nil {
					return usageError(err)
				}
				if err := renderDiagnostics(cmd.ErrOrStderr(), r, diags); err != nil {
					return usageError(err)
				}
			}
			if len(diags) > 0 {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().String("target", defaultTarget, "Target profile to check against (see qrca profiles).")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output diagnostics as JSON.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for store files to exclude (may be repeated).")
	cmd.Flags().StringSliceVar(&packages, "package", nil,
		"Names of the packages to check (default: all).")
	c.bind(cmd, "target")
	return cmd
}
