package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/webship/webship/internal/client/output"
	"github.com/webship/webship/internal/constants"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show the version of the CLI",
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	Run: func(_ *cobra.Command, _ []string) {
		output.KeyValue("CLI version", *constants.GetVersion())
		output.KeyValue("Go version", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
