package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the summ version, overridable at build time with
// -ldflags "-X github.com/summ-dev/summ/internal/cmd.Version=...".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: GroupDiag,
	Short:   "Show the summ version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("summ %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
