package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// Config is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `json:"server"`
	Simulation SimulationConfig `json:"simulation"`
	Database   DatabaseConfig   `json:"database"`
	Cognitive  CognitiveConfig  `json:"cognitive"`
}

type ServerConfig struct {
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
}

// SimulationConfig drives the world clock and agent seeding.
type SimulationConfig struct {
	TickMillis int     `json:"tick_millis"` // real-time tick interval
	Speed      float64 `json:"speed"`       // sim units per real second
	Seed       int64   `json:"seed"`        // RNG seed for new agents
}

type DatabaseConfig struct {
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
}

type PostgresConfig struct {
	DSN string `json:"dsn"`
}

type RedisConfig struct {
	URL string `json:"url"`
}

// CognitiveConfig tunes the default mental profile of new agents.
// Zero values leave the built-in defaults untouched.
type CognitiveConfig struct {
	SeedDefaults         bool               `json:"seed_defaults"`
	NegativityBias       float64            `json:"negativity_bias"`
	BaseMotivation       float64            `json:"base_motivation"`
	DesireThreshold      float64            `json:"desire_threshold"`
	DecayBaseRate        float64            `json:"decay_base_rate"`
	UncertaintyThreshold float64            `json:"uncertainty_threshold"`
	MemoryKeywords       map[string]float64 `json:"memory_keywords,omitempty"`
}

// envVarRe matches ${VAR} and ${VAR:default} patterns.
var envVarRe = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads a JSON config file and substitutes environment variable references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Substitute ${VAR} and ${VAR:default} with environment values.
	resolved := envVarRe.ReplaceAllStringFunc(string(data), func(match string) string {
		parts := envVarRe.FindStringSubmatch(match)
		name := parts[1]
		defaultVal := parts[2]
		if v := os.Getenv(name); v != "" {
			return v
		}
		return defaultVal
	})

	var cfg Config
	if err := json.Unmarshal([]byte(resolved), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Simulation.TickMillis == 0 {
		cfg.Simulation.TickMillis = 1000
	}
	if cfg.Simulation.Speed == 0 {
		cfg.Simulation.Speed = 1.0
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 1
	}
}
