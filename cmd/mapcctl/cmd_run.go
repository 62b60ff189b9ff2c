package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/mapcctl/internal/agent"
	"github.com/danmuck/mapcctl/internal/config"
	"github.com/danmuck/mapcctl/internal/engine"
	"github.com/danmuck/mapcctl/internal/observability"
)

type runOptions struct {
	configPath  string
	host        string
	port        int
	name        string
	password    string
	metricsAddr string
}

var runFlags runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect every configured agent and run until stopped",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.configPath, "config", "", "team config file (TOML)")
	f.StringVar(&runFlags.host, "host", "", "simulation server host")
	f.IntVar(&runFlags.port, "port", 0, "simulation server port")
	f.StringVar(&runFlags.name, "name", "", "run a single agent with this name")
	f.StringVar(&runFlags.password, "password", "", "password for --name")
	f.StringVar(&runFlags.metricsAddr, "metrics-addr", "", "serve /metrics on this address")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(runFlags)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runTeam(ctx, cfg)
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(opts runOptions) (config.TeamConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.TeamConfig{}, err
		}
		cfg = loaded
	}
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.name != "" {
		cfg.Agents = []config.AgentEntry{{Name: opts.name, Password: opts.password}}
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if err := config.Validate(cfg); err != nil {
		return config.TeamConfig{}, err
	}
	return cfg, nil
}

// runTeam runs one agent per configured identity until every agent has
// returned. Any agent's stopProcess cancels all of them.
func runTeam(ctx context.Context, cfg config.TeamConfig) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	agentCfgs := cfg.AgentConfigs()
	agents := make([]*agent.Agent, 0, len(agentCfgs))
	names := make([]string, 0, len(agentCfgs))
	for _, ac := range agentCfgs {
		a, err := agent.New(ac, engine.New(engine.SkipEachStep()), agent.WithStop(stop))
		if err != nil {
			return err
		}
		agents = append(agents, a)
		names = append(names, a.Name())
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return observability.Serve(gctx, cfg.MetricsAddr, observability.NewRouter("mapcctl", names))
		})
	}

	team, tctx := errgroup.WithContext(gctx)
	for _, a := range agents {
		a := a
		team.Go(func() error { return a.Run(tctx) })
	}
	g.Go(func() error {
		defer stop()
		err := team.Wait()
		log.Info().Int("agents", len(agents)).Err(err).Msg("all agents stopped")
		return err
	})
	return g.Wait()
}
