package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"warepulse.io/warepulse/engine"
)

type TimeclockConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	// Timezone is the zone the provider's bare timestamps are reported
	// in. Historical deployments disagreed about UTC vs local; it is an
	// explicit setting here, never an assumption in the core.
	Timezone string `yaml:"timezone"`
	Source   string `yaml:"source"`
}

type ScansConfig struct {
	Brokers              []string `yaml:"brokers"`
	Topic                string   `yaml:"topic"`
	Group                string   `yaml:"group"`
	Timezone             string   `yaml:"timezone"`
	DefaultWindowMinutes int      `yaml:"default_window_minutes"`
}

type BatchConfig struct {
	Concurrency        int `yaml:"concurrency"`
	UnitTimeoutSeconds int `yaml:"unit_timeout_seconds"`
}

// GapsConfig overrides the engine's canonical gap constants. Zero fields
// keep the defaults.
type GapsConfig struct {
	EmptySessionGraceMinutes float64 `yaml:"empty_session_grace_minutes"`
	BoundaryGraceMinutes     float64 `yaml:"boundary_grace_minutes"`
	BatchBuffer              float64 `yaml:"batch_buffer"`
	BatchFloorMinutes        float64 `yaml:"batch_floor_minutes"`
	BatchDefaultMinutes      float64 `yaml:"batch_default_minutes"`
	ContinuousDefaultMinutes float64 `yaml:"continuous_default_minutes"`
}

type Config struct {
	DSN      string `yaml:"dsn"`
	HTTPAddr string `yaml:"http_addr"`
	// JWTSecret is base64-encoded, matching the token issuer.
	JWTSecret string `yaml:"jwt_secret"`

	Timeclock TimeclockConfig `yaml:"timeclock"`
	Scans     ScansConfig     `yaml:"scans"`
	Batch     BatchConfig     `yaml:"batch"`
	Gaps      GapsConfig      `yaml:"gaps"`
}

// Load reads the YAML config file and applies env overrides (DSN,
// JWT_SECRET).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if dsn := os.Getenv("DSN"); dsn != "" {
		c.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWTSecret = secret
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = "0.0.0.0:8090"
	}
	if c.Timeclock.Timezone == "" {
		c.Timeclock.Timezone = "UTC"
	}
	if c.Scans.Timezone == "" {
		c.Scans.Timezone = "UTC"
	}
	if c.Timeclock.Source == "" {
		c.Timeclock.Source = "timeclock"
	}
}

// GapPolicy materializes the engine gap policy, with any configured
// overrides applied.
func (c *Config) GapPolicy() engine.GapPolicy {
	pol := engine.DefaultGapPolicy()
	g := c.Gaps
	if g.EmptySessionGraceMinutes > 0 {
		pol.EmptySessionGrace = minutes(g.EmptySessionGraceMinutes)
	}
	if g.BoundaryGraceMinutes > 0 {
		pol.BoundaryGrace = minutes(g.BoundaryGraceMinutes)
	}
	if g.BatchBuffer > 0 {
		pol.BatchBuffer = g.BatchBuffer
	}
	if g.BatchFloorMinutes > 0 {
		pol.BatchFloor = minutes(g.BatchFloorMinutes)
	}
	if g.BatchDefaultMinutes > 0 {
		pol.BatchDefault = minutes(g.BatchDefaultMinutes)
	}
	if g.ContinuousDefaultMinutes > 0 {
		pol.ContinuousDefault = minutes(g.ContinuousDefaultMinutes)
	}
	return pol
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
