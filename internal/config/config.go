package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from MARKS_* environment variables, optionally seeded from a
// .env file. Fields carry no envconfig names so that envconfig never falls
// back to unprefixed variables such as PATH or USER.
type Config struct {
	Port            int           `default:"8080"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	RollPrefix      string        `split_words:"true" default:"23011556-"`
	SheetName       string        `split_words:"true" default:"Student Marks"`
	ExportFileName  string        `split_words:"true" default:"Student_Marks_B(Section).xlsx"`
	SessionTTL      time.Duration `split_words:"true" default:"2h"`
	SweepInterval   time.Duration `split_words:"true" default:"5m"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`

	DB  DBConfig
	Log LogConfig
}

type DBConfig struct {
	Driver   string `default:"sqlite"`
	Path     string `default:"marksentry.db"`
	Host     string
	Port     string `default:"5432"`
	User     string
	Password string
	Name     string
}

type LogConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"`
}

// Load reads envFile when present, then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("MARKS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RollPrefix == "" {
		return errors.New("roll prefix must not be empty")
	}
	if c.SheetName == "" {
		return errors.New("sheet name must not be empty")
	}
	if c.ExportFileName == "" {
		return errors.New("export file name must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return errors.New("sqlite database path must not be empty")
		}
	case "postgres":
		if c.DB.Host == "" || c.DB.Name == "" {
			return errors.New("postgres requires DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DB.Driver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
