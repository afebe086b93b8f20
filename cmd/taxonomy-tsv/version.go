package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of taxonomy-tsv",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taxonomy-tsv %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
