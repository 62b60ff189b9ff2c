package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/mapcctl/internal/config"
)

var configFlags struct {
	force bool
	path  string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or check team config files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a team config template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "team.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteTemplate(path, configFlags.force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate a team config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFlags.path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "server:  %s\n", cfg.Address())
		if cfg.MetricsAddr != "" {
			fmt.Fprintf(out, "metrics: %s\n", cfg.MetricsAddr)
		}
		fmt.Fprintf(out, "agents:  %d\n", len(cfg.Agents))
		for _, a := range cfg.Agents {
			fmt.Fprintf(out, "  %s\n", a.Name)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configFlags.force, "force", false, "overwrite an existing file")
	configCheckCmd.Flags().StringVar(&configFlags.path, "config", "", "team config file (TOML)")
	_ = configCheckCmd.MarkFlagRequired("config")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
}
