// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/authportal/internal/config"
)

var configPath string // Path to the configuration directory or file

var rootCmd = &cobra.Command{
	Use:   "authportal",
	Short: "authportal is the web front of a remote auth gateway",
	Long: `authportal serves the login, registration and verification pages of a
remote auth gateway and guards the account pages behind a session.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		config.DefaultPath,
		"Path to the configuration directory or main.toml",
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
