package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"5001"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT"`
	DBUser     string `envconfig:"DB_USER" default:"taskuser"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"taskpassword"`
	DBName     string `envconfig:"DB_NAME" default:"task_tracker"`
	// DBPath is the sqlite database file (used when DBDriver == "sqlite")
	DBPath string `envconfig:"DB_PATH" default:"tasktrack.db"`

	// RedisAddr enables the Redis session store; empty falls back to cookies
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"default-secret-key-change-me"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"default-jwt-secret-change-me"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"720h"`

	GinMode     string   `envconfig:"GIN_MODE" default:"debug"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	AllowAdminSignup bool `envconfig:"ALLOW_ADMIN_SIGNUP" default:"false"`
}

const namespace = "TASKTRACK"

// Load reads an optional .env file and then the TASKTRACK_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(namespace, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) SlogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
