package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tstbuild",
		Long:  `All software has versions. This is tstbuild's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// The version template in root.go handles --version; this is the
			// explicit subcommand form.
			fmt.Fprintf(cmd.OutOrStdout(), "tstbuild version %s\n", rootCmd.Version)
		},
	}
}
