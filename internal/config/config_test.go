package config

import (
	"strings"
	"testing"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.SocketPath != "" {
		t.Fatalf("expected empty socket default, got %q", cfg.App.SocketPath)
	}
	if cfg.App.WorkspacePath == "" {
		t.Fatalf("expected a workspace default")
	}
	if cfg.App.Width != 0 || cfg.App.Height != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if cfg.Logging.Trace {
		t.Fatalf("expected trace disabled by default")
	}
}

func TestLoadArgsFlags(t *testing.T) {
	args := []string{
		"-socket", "/tmp/mux.sock",
		"-workspace", "/tmp/ws.yaml",
		"-width", "120",
		"-height", "40",
		"-trace",
		"-log-file", "/tmp/muxboard.log",
	}
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.SocketPath != "/tmp/mux.sock" {
		t.Fatalf("socket: got %q", cfg.App.SocketPath)
	}
	if cfg.App.WorkspacePath != "/tmp/ws.yaml" {
		t.Fatalf("workspace: got %q", cfg.App.WorkspacePath)
	}
	if cfg.App.Width != 120 || cfg.App.Height != 40 {
		t.Fatalf("dimensions: got %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if !cfg.Logging.Trace {
		t.Fatalf("expected trace enabled")
	}
	if cfg.Logging.FilePath != "/tmp/muxboard.log" {
		t.Fatalf("log file: got %q", cfg.Logging.FilePath)
	}
}

func TestLoadArgsEnvironment(t *testing.T) {
	environ := []string{
		"MUXBOARD_SOCKET=/run/mux.sock",
		"MUXBOARD_WORKSPACE=/etc/muxboard/ws.yaml",
		"MUXBOARD_WIDTH=80",
		"MUXBOARD_TRACE=true",
	}
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.SocketPath != "/run/mux.sock" {
		t.Fatalf("socket: got %q", cfg.App.SocketPath)
	}
	if cfg.App.WorkspacePath != "/etc/muxboard/ws.yaml" {
		t.Fatalf("workspace: got %q", cfg.App.WorkspacePath)
	}
	if cfg.App.Width != 80 {
		t.Fatalf("width: got %d", cfg.App.Width)
	}
	if !cfg.Logging.Trace {
		t.Fatalf("expected trace from environment")
	}
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	environ := []string{"MUXBOARD_SOCKET=/run/env.sock", "MUXBOARD_WIDTH=80"}
	cfg, err := LoadArgs([]string{"-socket", "/tmp/flag.sock", "-width", "100"}, environ)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.SocketPath != "/tmp/flag.sock" {
		t.Fatalf("expected flag to win, got %q", cfg.App.SocketPath)
	}
	if cfg.App.Width != 100 {
		t.Fatalf("expected flag to win, got %d", cfg.App.Width)
	}
}

func TestLoadArgsRejectsNegativeDimensions(t *testing.T) {
	if _, err := LoadArgs([]string{"-width", "-1"}, nil); err == nil {
		t.Fatalf("expected error for negative width")
	}
	if _, err := LoadArgs([]string{"-height", "-5"}, nil); err == nil {
		t.Fatalf("expected error for negative height")
	}
}

func TestLoadArgsBadEnvFallsBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"MUXBOARD_WIDTH=abc", "MUXBOARD_TRACE=sometimes"})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Width != 0 {
		t.Fatalf("unparseable width must fall back to 0, got %d", cfg.App.Width)
	}
	if cfg.Logging.Trace {
		t.Fatalf("unparseable trace must fall back to false")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := LoadArgs([]string{"-workspace", "/tmp/ws.yaml"}, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.App.WorkspacePath = "   "
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "workspace") {
		t.Fatalf("expected workspace validation error, got %v", err)
	}
}

func TestLoadArgsRecordsFlagsForTracing(t *testing.T) {
	cfg, err := LoadArgs([]string{"-width", "90"}, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.Flags["width"] != "90" {
		t.Fatalf("expected width recorded, got %q", cfg.Flags["width"])
	}
	if len(cfg.Args) != 2 || cfg.Args[0] != "-width" {
		t.Fatalf("expected argv preserved, got %v", cfg.Args)
	}
}
