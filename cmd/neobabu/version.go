package main

import (
	"fmt"
	"strings"

	neobabu "github.com/Zitronenjoghurt/neobabu-sub000"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of neobabu",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "neobabu version %s\n", strings.TrimSpace(neobabu.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
