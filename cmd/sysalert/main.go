package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/sysalert/internal/config"
	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "sysalert",
		Short:         "Threshold alerts for CPU and GPU temperature, memory and battery",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(config.WithFlags(cmd.Flags()))
			if err != nil {
				return err
			}

			logger.Init(cfg.LogLevel, logger.IsService())
			logger.Debug().Msg("Config loaded")

			return nil
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Check thresholds on every interval until interrupted",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runDaemon(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Run one threshold check and print the alert states",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(cmd.Context(), cfg, cmd.OutOrStdout())
			},
		},
	)

	return rootCmd
}
