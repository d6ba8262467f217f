package main

import (
	"fmt"

	"git.sr.ht/~jakintosh/feescan/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Data()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "feescan %s\n", info.Version)
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
			fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
			return nil
		},
	}
}
