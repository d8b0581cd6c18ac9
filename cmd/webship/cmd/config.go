package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/webship/webship/internal/client/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long:  "Print the configuration after defaults, the project file, environment variables and flags are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := getConfigFromContext(cmd)
		if err != nil {
			return err
		}

		rendered, err := cfg.Render()
		if err != nil {
			return err
		}

		if cfg.File != "" {
			output.KeyValue("File", cfg.File)
			output.Blank()
		}
		output.Println(strings.TrimRight(string(rendered), "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
