// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/luthersystems/qrca/capabilities"
)

// ProfilesCommand returns the profiles command.
func ProfilesCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the target profiles, least capable first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ew := &errWriter{w: cmd.OutOrStdout()}
			for i, p := range capabilities.Profiles {
				if i > 0 {
					ew.print("\n")
				}
				ew.printf("%s\n", p.Name)
				ew.printf("  capabilities: %s\n", p.Capabilities)
				ew.printf("%s\n", describe(p.Description, width))
			}
			return ew.err
		},
	}
	cmd.Flags().IntVar(&width, "wrap", defaultWrap, "Wrap descriptions at this column.")
	return cmd
}
