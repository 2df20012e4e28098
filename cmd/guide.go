// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/luthersystems/qrca/docs"
)

// GuideCommand returns the guide command.
func GuideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Print the reference for the package store format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), docs.StoreFormat)
			return err
		},
	}
}
