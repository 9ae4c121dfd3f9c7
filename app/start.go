package app

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/authportal/internal/config"
	"github.com/GoPowerDNS-Admin/authportal/internal/daemon"
	"github.com/GoPowerDNS-Admin/authportal/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().BoolVar(
		&browseStatic,
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	cfg *config.Config

	devMode      bool
	browseStatic bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the authportal web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if cfg, err = config.ReadConfig(configPath); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if browseStatic {
				cfg.Webserver.BrowseStatic = true
			}

			if cfg.Log.Console.Enabled {
				banner(cfg.Title)
			}

			return logger.Init(cfg.Log)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)

func banner(title string) {
	figure.NewFigure(title, "cybermedium", true).Print()
	fmt.Println() //nolint:forbidigo
}

