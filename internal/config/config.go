// Package config provides configuration loading for the procurement service.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pharmaflow/be-procurement/internal/errors"
)

// Config is the complete service configuration.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	NATS          NATSConfig          `yaml:"nats"`
	Collaborators CollaboratorsConfig `yaml:"collaborators"`
	Negotiation   NegotiationConfig   `yaml:"negotiation"`
	Scoring       ScoringConfig       `yaml:"scoring"`
}

// ServiceConfig identifies the service in logs and events.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	User        string        `yaml:"user"`
	Password    string        `yaml:"password"`
	Database    string        `yaml:"database"`
	SSLMode     string        `yaml:"ssl_mode"`
	MaxConns    int32         `yaml:"max_conns"`
	MinConns    int32         `yaml:"min_conns"`
	MaxConnTime time.Duration `yaml:"max_conn_time"`
	MaxIdleTime time.Duration `yaml:"max_idle_time"`
	HealthCheck time.Duration `yaml:"health_check"`
}

// NATSConfig configures the event publisher connection.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// CollaboratorsConfig holds endpoints of external collaborator services.
type CollaboratorsConfig struct {
	ComposerURL    string        `yaml:"composer_url"`
	DirectoryURL   string        `yaml:"directory_url"`
	ReliabilityURL string        `yaml:"reliability_url"`
	Timeout        time.Duration `yaml:"timeout"`
}

// NegotiationConfig holds the tunables of the negotiation state machine.
type NegotiationConfig struct {
	// MaxRounds caps rounds per supplier negotiation.
	MaxRounds int `yaml:"max_rounds"`
	// PriceTolerance is the fraction above the best competitor price that is
	// still considered competitive (0.05 = 5%).
	PriceTolerance float64 `yaml:"price_tolerance"`
	// VolumeThreshold is the quantity from which bulk discounts are requested.
	VolumeThreshold int `yaml:"volume_threshold"`
	// DeliveryCeilingHigh/Critical are the acceptable delivery days per urgency.
	DeliveryCeilingHigh     int `yaml:"delivery_ceiling_high"`
	DeliveryCeilingCritical int `yaml:"delivery_ceiling_critical"`
}

// WeightsConfig is one scoring weight profile. Weights must sum to 1.0.
type WeightsConfig struct {
	Price       float64 `yaml:"price"`
	Speed       float64 `yaml:"speed"`
	Reliability float64 `yaml:"reliability"`
	Stock       float64 `yaml:"stock"`
}

// ScoringConfig holds the scenario weight profiles.
type ScoringConfig struct {
	Default  WeightsConfig `yaml:"default"`
	Critical WeightsConfig `yaml:"critical"`
	Budget   WeightsConfig `yaml:"budget"`
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "be-procurement",
			Version:     "dev",
			Environment: "development",
		},
		Server: ServerConfig{
			Port:            8086,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        5432,
			User:        "procurement",
			Password:    "procurement",
			Database:    "procurement",
			SSLMode:     "disable",
			MaxConns:    10,
			MinConns:    2,
			MaxConnTime: time.Hour,
			MaxIdleTime: 30 * time.Minute,
			HealthCheck: time.Minute,
		},
		NATS: NATSConfig{URL: "nats://localhost:4222"},
		Collaborators: CollaboratorsConfig{
			ComposerURL:    "http://localhost:8090",
			DirectoryURL:   "http://localhost:8091",
			ReliabilityURL: "http://localhost:8091",
			Timeout:        30 * time.Second,
		},
		Negotiation: NegotiationConfig{
			MaxRounds:               3,
			PriceTolerance:          0.05,
			VolumeThreshold:         5000,
			DeliveryCeilingHigh:     5,
			DeliveryCeilingCritical: 2,
		},
		Scoring: ScoringConfig{
			Default:  WeightsConfig{Price: 0.40, Speed: 0.25, Reliability: 0.20, Stock: 0.15},
			Critical: WeightsConfig{Price: 0.30, Speed: 0.50, Reliability: 0.15, Stock: 0.05},
			Budget:   WeightsConfig{Price: 0.60, Speed: 0.15, Reliability: 0.15, Stock: 0.10},
		},
	}
}

// Load reads the YAML file at path (when non-empty) over the defaults, then
// applies environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides selected settings from the environment. Only settings
// that differ per deployment are exposed this way.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Database = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("COMPOSER_URL"); v != "" {
		c.Collaborators.ComposerURL = v
	}
	if v := os.Getenv("DIRECTORY_URL"); v != "" {
		c.Collaborators.DirectoryURL = v
	}
	if v := os.Getenv("RELIABILITY_URL"); v != "" {
		c.Collaborators.ReliabilityURL = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Service.Environment = v
	}
}

// Validate checks the configuration, including that every weight profile
// sums to 1.0. A malformed profile is rejected before any scoring happens.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "server.port out of range: %d", c.Server.Port)
	}
	if c.Negotiation.MaxRounds < 1 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "negotiation.max_rounds must be >= 1, got %d", c.Negotiation.MaxRounds)
	}
	if c.Negotiation.PriceTolerance < 0 || c.Negotiation.PriceTolerance > 1 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "negotiation.price_tolerance must be in [0,1], got %g", c.Negotiation.PriceTolerance)
	}

	profiles := map[string]WeightsConfig{
		"default":  c.Scoring.Default,
		"critical": c.Scoring.Critical,
		"budget":   c.Scoring.Budget,
	}
	for name, w := range profiles {
		sum := w.Price + w.Speed + w.Reliability + w.Stock
		if math.Abs(sum-1.0) > 1e-9 {
			return errors.Newf(errors.ErrCodeInvalidConfiguration,
				"scoring.%s weights must sum to 1.0, got %g", name, sum)
		}
	}
	return nil
}
