// Package config provides configuration loading and access for the physics
// engine. Defaults are embedded; a user file merged on top only overrides
// the fields it names.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ballast/world"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Solver    SolverConfig    `yaml:"solver"`
	Sleep     SleepConfig     `yaml:"sleep"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	Gravity            [3]float64 `yaml:"gravity"`
	MaxLinearVelocity  float64    `yaml:"max_linear_velocity"`
	MaxAngularVelocity float64    `yaml:"max_angular_velocity"`
}

// SolverConfig holds contact solver parameters.
type SolverConfig struct {
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	BaumgarteScale     float64 `yaml:"baumgarte_scale"`
	AllowedPenetration float64 `yaml:"allowed_penetration"`
}

// SleepConfig holds the sleep heuristic parameters.
type SleepConfig struct {
	VelocityThreshold float64 `yaml:"velocity_threshold"`
	Time              float64 `yaml:"time"`
}

// TelemetryConfig holds telemetry output parameters.
type TelemetryConfig struct {
	Window    int    `yaml:"window"`     // rolling window in steps
	OutputDir string `yaml:"output_dir"` // empty disables CSV output
}

// Load reads configuration from a YAML file, merged over the embedded
// defaults. An empty path uses the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct; only fields present in the file
		// overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects parameter combinations the solver cannot run with.
func (c *Config) Validate() error {
	if c.Solver.VelocityIterations < 1 {
		return fmt.Errorf("solver.velocity_iterations must be >= 1, got %d", c.Solver.VelocityIterations)
	}
	if c.Solver.PositionIterations < 0 {
		return fmt.Errorf("solver.position_iterations must be >= 0, got %d", c.Solver.PositionIterations)
	}
	if c.Solver.BaumgarteScale < 0 || c.Solver.BaumgarteScale > 1 {
		return fmt.Errorf("solver.baumgarte_scale must be in [0,1], got %g", c.Solver.BaumgarteScale)
	}
	if c.Solver.AllowedPenetration < 0 {
		return fmt.Errorf("solver.allowed_penetration must be >= 0, got %g", c.Solver.AllowedPenetration)
	}
	if c.Sleep.Time <= 0 {
		return fmt.Errorf("sleep.time must be > 0, got %g", c.Sleep.Time)
	}
	return nil
}

// Settings converts the loaded configuration into world settings.
func (c *Config) Settings() *world.Settings {
	return &world.Settings{
		Gravity:                mgl64.Vec3{c.Physics.Gravity[0], c.Physics.Gravity[1], c.Physics.Gravity[2]},
		VelocityIterations:     c.Solver.VelocityIterations,
		PositionIterations:     c.Solver.PositionIterations,
		BaumgarteScale:         c.Solver.BaumgarteScale,
		AllowedPenetration:     c.Solver.AllowedPenetration,
		MaxLinearVelocity:      c.Physics.MaxLinearVelocity,
		MaxAngularVelocity:     c.Physics.MaxAngularVelocity,
		SleepVelocityThreshold: c.Sleep.VelocityThreshold,
		SleepTime:              c.Sleep.Time,
	}
}

// WriteYAML writes the configuration to a YAML file, for experiment
// snapshots.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
