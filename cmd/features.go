// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/qrca/capabilities"
	"github.com/luthersystems/qrca/rca"
)

const defaultWrap = 72

// describe formats text wrapped to width and indented by two spaces.
func describe(text string, width int) string {
	return strings.TrimSuffix(indent.String(wordwrap.String(text, width), 2), "\n")
}

// FeaturesCommand returns the features command.
func FeaturesCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "features [flags] [feature...]",
		Short: "Describe the runtime features reported by the analysis",
		Long: `Describe the runtime features reported by the analysis.

Features may be named by flag name (UseOfDynamicBool) or by diagnostic
code (use-of-dynamic-bool).  With no arguments every feature is listed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			features := rca.AllFeatures()
			if len(args) > 0 {
				features = features[:0:0]
				for _, arg := range args {
					f, ok := lookupFeature(arg)
					if !ok {
						return usageError(fmt.Errorf("unknown runtime feature %q", arg))
					}
					features = append(features, f)
				}
			}
			ew := &errWriter{w: cmd.OutOrStdout()}
			for i, f := range features {
				if i > 0 {
					ew.print("\n")
				}
				ew.printf("%s [%s]\n", f, capabilities.Code(f))
				ew.printf("  requires: %s\n", capabilities.Required(f))
				ew.printf("%s\n", describe(capabilities.Message(f)+".", width))
			}
			return ew.err
		},
	}
	cmd.Flags().IntVar(&width, "wrap", defaultWrap, "Wrap descriptions at this column.")
	return cmd
}

func lookupFeature(name string) (rca.RuntimeFeatureFlags, bool) {
	if f, ok := rca.ParseFeature(name); ok {
		return f, true
	}
	for _, f := range rca.AllFeatures() {
		if capabilities.Code(f) == name {
			return f, true
		}
	}
	return 0, false
}
