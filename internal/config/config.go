// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultDatabaseFile = "data/vpl.db"
	defaultDeadline     = "2026-01-24T23:59:00+05:30"
)

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`

	Database struct {
		// Filename may be overridden by the DATABASE_URL environment variable.
		Filename string `yaml:"filename"`
	} `yaml:"database"`

	Registration struct {
		Deadline    time.Time `yaml:"deadline"`
		Capacity    int       `yaml:"capacity"`
		PhoneRegion string    `yaml:"phone_region"`
	} `yaml:"registration"`

	Uploads struct {
		Dir string `yaml:"dir"`
	} `yaml:"uploads"`

	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"-"` // Loaded from environment
	} `yaml:"admin"`
}

// Load reads the optional YAML config file and the optional .env file, applies
// defaults, and pulls secrets from the environment. A missing config file is
// not an error; every setting has a workable default for local runs.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("error reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}
	}

	// Environment overrides
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.Filename = dsn
	}
	if port := os.Getenv("PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &cfg.App.Port); err != nil {
			return nil, fmt.Errorf("invalid PORT value %q", port)
		}
	}
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "vpl-registry"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Database.Filename = defaultDatabaseFile
	cfg.Registration.Capacity = 200
	cfg.Registration.PhoneRegion = "IN"
	cfg.Registration.Deadline, _ = time.Parse(time.RFC3339, defaultDeadline)
	cfg.Uploads.Dir = "static/uploads"
	cfg.Admin.Username = "admin"
	return cfg
}

func (c *Config) Validate() error {
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required")
	}
	if c.Registration.Capacity <= 0 {
		return fmt.Errorf("registration capacity must be positive")
	}
	if c.Registration.Deadline.IsZero() {
		return fmt.Errorf("registration deadline is required")
	}
	if c.Uploads.Dir == "" {
		return fmt.Errorf("uploads directory is required")
	}
	if c.Admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD environment variable is required")
	}
	return nil
}
