package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/mapcctl/internal/agent"
	"github.com/danmuck/mapcctl/internal/protocol/session"
)

var (
	ErrNoAgents      = errors.New("config: no agents configured")
	ErrDuplicateName = errors.New("config: duplicate agent name")
	ErrInvalidPort   = errors.New("config: port out of range")
)

// TeamConfig describes one server and the agents that log into it.
type TeamConfig struct {
	Host        string
	Port        int
	MetricsAddr string
	Session     session.Config
	Agents      []AgentEntry
}

type AgentEntry struct {
	Name     string `toml:"name"`
	Password string `toml:"password"`
}

type fileConfig struct {
	Host           string       `toml:"host"`
	Port           int          `toml:"port"`
	ConnectTimeout string       `toml:"connect_timeout"`
	WriteTimeout   string       `toml:"write_timeout"`
	MaxFrameBytes  int          `toml:"max_frame_bytes"`
	MetricsAddr    string       `toml:"metrics_addr"`
	Agents         []AgentEntry `toml:"agents"`
}

func Default() TeamConfig {
	return TeamConfig{
		Host:    agent.DefaultHost,
		Port:    agent.DefaultPort,
		Session: session.DefaultConfig(),
	}
}

// Load reads a team file and applies the keys it defines onto Default.
func Load(path string) (TeamConfig, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return TeamConfig{}, fmt.Errorf("load team config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return TeamConfig{}, fmt.Errorf("load team config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("host") {
		if host := strings.TrimSpace(raw.Host); host != "" {
			cfg.Host = host
		}
	}

	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}

	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return TeamConfig{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.Session.ConnectTimeout = d
	}

	if meta.IsDefined("write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WriteTimeout))
		if err != nil {
			return TeamConfig{}, fmt.Errorf("parse write_timeout: %w", err)
		}
		cfg.Session.WriteTimeout = d
	}

	if meta.IsDefined("max_frame_bytes") {
		cfg.Session.Limits.MaxFrameBytes = raw.MaxFrameBytes
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if meta.IsDefined("agents") {
		cfg.Agents = normalizeAgents(raw.Agents)
	}

	if err := Validate(cfg); err != nil {
		return TeamConfig{}, err
	}
	return cfg, nil
}

func normalizeAgents(in []AgentEntry) []AgentEntry {
	out := make([]AgentEntry, 0, len(in))
	for _, a := range in {
		out = append(out, AgentEntry{Name: strings.TrimSpace(a.Name), Password: a.Password})
	}
	return out
}

func Validate(cfg TeamConfig) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("team config missing host")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Port)
	}
	if cfg.Session.ConnectTimeout < 0 || cfg.Session.WriteTimeout < 0 {
		return fmt.Errorf("team config timeouts must not be negative")
	}
	if cfg.Session.Limits.MaxFrameBytes < 0 {
		return fmt.Errorf("team config max_frame_bytes must not be negative")
	}
	if len(cfg.Agents) == 0 {
		return ErrNoAgents
	}
	seen := make(map[string]struct{}, len(cfg.Agents))
	for i, a := range cfg.Agents {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("agents[%d] invalid: %w", i, agent.ErrNameRequired)
		}
		if _, ok := seen[a.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

func (c TeamConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AgentConfigs resolves one agent.Config per configured identity.
func (c TeamConfig) AgentConfigs() []agent.Config {
	out := make([]agent.Config, 0, len(c.Agents))
	for _, a := range c.Agents {
		out = append(out, agent.Config{
			Name:     a.Name,
			Password: a.Password,
			Address:  c.Address(),
			Session:  c.Session,
		})
	}
	return out
}
