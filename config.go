// config.go

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
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the complete configuration of a Drone and its logging.
type Config struct {
	Drone   DroneConfig   `yaml:"drone"`
	Control ControlConfig `yaml:"control"`
	Log     LogConfig     `yaml:"log"`
}

// DroneConfig says where the drone is.
type DroneConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	StubMode bool   `yaml:"stubMode"` // no network I/O at all
}

// ControlConfig holds the control loop settings.
type ControlConfig struct {
	PeriodMs   int    `yaml:"periodMs"`
	Terminator string `yaml:"terminator"` // "lf" or "crlf"
}

// LogConfig holds the logging settings, File empty means stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Environment variables overriding the file
const (
	EnvHost     = "ARDRONE_HOST"
	EnvPort     = "ARDRONE_PORT"
	EnvStub     = "ARDRONE_STUB"
	EnvLogLevel = "ARDRONE_LOG_LEVEL"
)

const maxPeriodMs = 1000

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Drone: DroneConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Control: ControlConfig{
			PeriodMs:   int(DefaultPeriod / time.Millisecond),
			Terminator: "lf",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults, applies
// environment overrides and validates the result.  An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "ardrone: load config %s", path)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "ardrone: invalid config")
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if host := os.Getenv(EnvHost); host != "" {
		cfg.Drone.Host = host
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return errors.Wrapf(err, "ardrone: bad %s", EnvPort)
		}
		cfg.Drone.Port = p
	}
	if stub := os.Getenv(EnvStub); stub != "" {
		b, err := strconv.ParseBool(stub)
		if err != nil {
			return errors.Wrapf(err, "ardrone: bad %s", EnvStub)
		}
		cfg.Drone.StubMode = b
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	return nil
}

// Validate checks the configuration for values the Drone cannot use.
func (cfg *Config) Validate() error {
	if cfg.Drone.Host == "" {
		return errors.New("drone host must be set")
	}
	if cfg.Drone.Port <= 0 || cfg.Drone.Port > 65535 {
		return errors.Errorf("drone port %d is outside [1, 65535]", cfg.Drone.Port)
	}
	if cfg.Control.PeriodMs <= 0 || cfg.Control.PeriodMs > maxPeriodMs {
		return errors.Errorf("control period %dms is outside [1, %d]", cfg.Control.PeriodMs, maxPeriodMs)
	}
	if _, err := parseTerminator(cfg.Control.Terminator); err != nil {
		return err
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}

// Encoder returns the command encoder selected by the configuration.
func (cfg *Config) Encoder() Encoder {
	term, err := parseTerminator(cfg.Control.Terminator)
	if err != nil {
		return DefaultEncoder
	}
	return Encoder{Terminator: term}
}

// Period returns the control loop period.
func (cfg *Config) Period() time.Duration {
	return time.Duration(cfg.Control.PeriodMs) * time.Millisecond
}

// Options returns the Drone options matching the configuration.
func (cfg *Config) Options() []Option {
	return []Option{
		WithStubMode(cfg.Drone.StubMode),
		WithEncoder(cfg.Encoder()),
		WithPeriod(cfg.Period()),
	}
}

func parseTerminator(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "lf":
		return TerminatorLF, nil
	case "crlf":
		return TerminatorCRLF, nil
	}
	return "", errors.Errorf("invalid terminator %q, must be lf or crlf", s)
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, errors.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
