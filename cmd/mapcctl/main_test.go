package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/mapcctl/internal/agent"
	"github.com/danmuck/mapcctl/internal/config"
	"github.com/danmuck/mapcctl/internal/testutil/simserver"
	"github.com/danmuck/mapcctl/internal/testutil/testlog"
)

func TestResolveConfigAppliesFlagOverrides(t *testing.T) {
	testlog.Start(t)
	cfg, err := resolveConfig(runOptions{
		configPath:  "ex.config.toml",
		host:        "sim.local",
		port:        12400,
		metricsAddr: ":9101",
	})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Address() != "sim.local:12400" {
		t.Fatalf("unexpected address: %q", cfg.Address())
	}
	if cfg.MetricsAddr != ":9101" {
		t.Fatalf("unexpected metrics addr: %q", cfg.MetricsAddr)
	}
	if len(cfg.Agents) != 2 {
		t.Fatalf("unexpected agents: %+v", cfg.Agents)
	}

	cfg, err = resolveConfig(runOptions{configPath: "ex.config.toml", name: "solo", password: "pw"})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if len(cfg.Agents) != 1 || cfg.Agents[0].Name != "solo" || cfg.Agents[0].Password != "pw" {
		t.Fatalf("name override not applied: %+v", cfg.Agents)
	}
}

func TestResolveConfigWithoutFileNeedsName(t *testing.T) {
	testlog.Start(t)
	if _, err := resolveConfig(runOptions{}); !errors.Is(err, config.ErrNoAgents) {
		t.Fatalf("expected ErrNoAgents, got %v", err)
	}
	cfg, err := resolveConfig(runOptions{name: "a1"})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Address() != agent.DefaultAddress() {
		t.Fatalf("unexpected default address: %q", cfg.Address())
	}
}

func TestRunTeamSkipsEachStepUntilServerCloses(t *testing.T) {
	testlog.Start(t)
	srv := simserver.Start(t)
	host, portText, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, _ := strconv.Atoi(portText)
	cfg, err := resolveConfig(runOptions{host: host, port: port, name: "a1", password: "pw"})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- runTeam(context.Background(), cfg) }()

	peer := srv.Accept(t)
	if _, ok := peer.Next(t).Child("auth-request"); !ok {
		t.Fatalf("expected auth-request")
	}
	peer.Send(t, `<message type="auth-response"><authentication result="ok"/></message>`)
	peer.Send(t, `<message type="request-action" timestamp="1"><percept deadline="2" id="11">`+
		`<simulation step="0"/><self charge="1" load="0" lat="0" lon="0"/><team money="0"/></percept></message>`)

	action, ok := peer.Next(t).Child("action")
	if !ok {
		t.Fatalf("expected a skip action")
	}
	if id, _ := action.Attr("id"); id != "11" {
		t.Fatalf("unexpected action id: %q", id)
	}
	_ = peer.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run team: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("team did not stop after the server closed")
	}
}

func TestRunTeamReturnsDialFailure(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, portText, _ := net.SplitHostPort(ln.Addr().String())
	_ = ln.Close()
	port, _ := strconv.Atoi(portText)

	cfg, err := resolveConfig(runOptions{host: "127.0.0.1", port: port, name: "a1"})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if err := runTeam(context.Background(), cfg); err == nil {
		t.Fatalf("expected dial failure")
	}
}

func TestConfigInitAndCheckCommands(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "team.toml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"config", "check", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config check: %v", err)
	}
	if !strings.Contains(out.String(), "server:  localhost:12300") || !strings.Contains(out.String(), "agentA2") {
		t.Fatalf("unexpected check output:\n%s", out.String())
	}
}
