package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/authportal/internal/config"
)

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration including environment overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			out, err := config.DumpConfig(c)
			if dumpJSON {
				out, err = config.DumpConfigJSON(c)
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
)
