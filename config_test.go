// ardrone project config_test.go

// Copyright (C) 2018  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package ardrone

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Drone.Host != "192.168.1.1" || cfg.Drone.Port != 5556 {
		t.Errorf("Unexpected default address %s:%d", cfg.Drone.Host, cfg.Drone.Port)
	}
	if cfg.Period() != 30*time.Millisecond {
		t.Errorf("Unexpected default period %v", cfg.Period())
	}
	if cfg.Encoder() != DefaultEncoder {
		t.Errorf("Unexpected default encoder %+v", cfg.Encoder())
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ardrone.yaml")
	yml := `
drone:
  host: 10.0.0.7
  stubMode: true
control:
  periodMs: 25
  terminator: crlf
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed with %v", err)
	}
	if cfg.Drone.Host != "10.0.0.7" || !cfg.Drone.StubMode {
		t.Errorf("File values not applied: %+v", cfg.Drone)
	}
	if cfg.Drone.Port != DefaultPort {
		t.Errorf("Missing values should keep their defaults, port %d", cfg.Drone.Port)
	}
	if cfg.Period() != 25*time.Millisecond || cfg.Encoder().Terminator != TerminatorCRLF {
		t.Errorf("Control values not applied: %+v", cfg.Control)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLoadConfigNoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed with %v", err)
	}
	if cfg.Drone.Host != DefaultHost {
		t.Errorf("Expected default host, got %s", cfg.Drone.Host)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvHost, "172.16.0.2")
	t.Setenv(EnvPort, "6000")
	t.Setenv(EnvStub, "true")
	t.Setenv(EnvLogLevel, "warn")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed with %v", err)
	}
	if cfg.Drone.Host != "172.16.0.2" || cfg.Drone.Port != 6000 || !cfg.Drone.StubMode || cfg.Log.Level != "warn" {
		t.Errorf("Environment overrides not applied: %+v %+v", cfg.Drone, cfg.Log)
	}

	t.Setenv(EnvPort, "lots")
	if _, err = LoadConfig(""); err == nil {
		t.Error("Expected an error for a non-numeric port")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":       func(c *Config) { c.Drone.Port = 70000 },
		"host":       func(c *Config) { c.Drone.Host = "" },
		"period":     func(c *Config) { c.Control.PeriodMs = 0 },
		"terminator": func(c *Config) { c.Control.Terminator = "cr" },
		"level":      func(c *Config) { c.Log.Level = "chatty" },
	}
	for name, breakIt := range cases {
		cfg := DefaultConfig()
		breakIt(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected %s to be rejected", name)
		}
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Drone.StubMode = true
	cfg.Control.PeriodMs = 5
	d := New(nil, append(cfg.Options(), WithLogger(quietLogger))...)
	if _, ok := d.transport.(*StubTransport); !ok {
		t.Error("Stub mode config should give a StubTransport")
	}
	if d.period != 5*time.Millisecond {
		t.Errorf("Unexpected period %v", d.period)
	}
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ardrone.log")
	logger, closer := NewLogger(LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	logger.Debug("command", "seq", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("Closing log failed with %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Log file not written: %v", err)
	}
	if !strings.Contains(string(data), "msg=command") || !strings.Contains(string(data), "seq=1") {
		t.Errorf("Unexpected log contents %q", data)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger, closer := NewLogger(LogConfig{Level: "warn"})
	defer closer.Close()
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should be disabled at warn level")
	}
}
