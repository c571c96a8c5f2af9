package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wdm0006/tabsplit/internal/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
)

// settings is the config file merged with the persistent flags, filled in
// before any subcommand runs.
type settings struct {
	cfg Config
}

func execute(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFormat  string
		s          settings
	)

	rootCmd := &cobra.Command{
		Use:           "tabsplit",
		Short:         "Split and merge marketplace listing tables",
		Long:          "Split a listing export into size-bounded files by product or store key, or merge such files back into one table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			// flag > file > default
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			logging.Setup(cfg.Log.Level, cfg.Log.Format)
			s.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.json, .toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(newSplitCmd(&s))
	rootCmd.AddCommand(newMergeCmd(&s))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tabsplit version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
