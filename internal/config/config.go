// Package config loads degate settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/grid"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
)

const (
	EnvGridMin       = "DEGATE_GRID_MIN"
	EnvGridMax       = "DEGATE_GRID_MAX"
	EnvGridDistance  = "DEGATE_GRID_DISTANCE"
	EnvPortDiameter  = "DEGATE_PORT_DIAMETER"
	EnvRemoteURL     = "DEGATE_REMOTE_URL"
	EnvRemoteTimeout = "DEGATE_REMOTE_TIMEOUT"
)

type Config struct {
	Grid         GridConfig
	PortDiameter uint
	Remote       RemoteConfig
}

type GridConfig struct {
	Min      int
	Max      int
	Distance float64
}

type RemoteConfig struct {
	URL     string
	Timeout time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Grid:         GridConfig{Min: 0, Max: 1000, Distance: 0},
		PortDiameter: logicmodel.DefaultPortDiameter,
		Remote:       RemoteConfig{Timeout: 10 * time.Second},
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. A missing .env file is not an error; an unparsable
// value is.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables over Default.
func FromEnv() (*Config, error) {
	cfg := Default()

	var err error
	if cfg.Grid.Min, err = envInt(EnvGridMin, cfg.Grid.Min); err != nil {
		return nil, err
	}
	if cfg.Grid.Max, err = envInt(EnvGridMax, cfg.Grid.Max); err != nil {
		return nil, err
	}
	if cfg.Grid.Distance, err = envFloat(EnvGridDistance, cfg.Grid.Distance); err != nil {
		return nil, err
	}
	diameter, err := envInt(EnvPortDiameter, int(cfg.PortDiameter))
	if err != nil {
		return nil, err
	}
	if diameter < 0 {
		return nil, fmt.Errorf("config: %s must not be negative, got %d", EnvPortDiameter, diameter)
	}
	cfg.PortDiameter = uint(diameter)

	cfg.Remote.URL = strings.TrimSpace(os.Getenv(EnvRemoteURL))
	if raw := strings.TrimSpace(os.Getenv(EnvRemoteTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvRemoteTimeout, err)
		}
		cfg.Remote.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the grid settings.
func (c *Config) Validate() error {
	if c.Grid.Distance < 0 {
		return fmt.Errorf("config: grid distance must not be negative, got %g", c.Grid.Distance)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("config: remote timeout must not be negative, got %s", c.Remote.Timeout)
	}
	return nil
}

// RegularGrid builds a grid with the configured range and spacing.
func (c *Config) RegularGrid(o grid.Orientation) (*grid.RegularGrid, error) {
	g := grid.NewRegularGrid(o)
	g.SetRange(c.Grid.Min, c.Grid.Max)
	if err := g.SetDistance(c.Grid.Distance); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return g, nil
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}
