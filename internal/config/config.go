// Package config reads the demo server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures `formbind serve`.
type Server struct {
	Addr            string        `env:"FORMBIND_ADDR"             envDefault:":8080"`
	LogLevel        string        `env:"FORMBIND_LOG_LEVEL"        envDefault:"info"`
	Prefix          string        `env:"FORMBIND_PREFIX"           envDefault:"form"`
	VocabularyDir   string        `env:"FORMBIND_VOCABULARY_DIR"`
	RedisAddr       string        `env:"FORMBIND_REDIS_ADDR"`
	RedisPassword   string        `env:"FORMBIND_REDIS_PASSWORD"`
	RedisDB         int           `env:"FORMBIND_REDIS_DB"         envDefault:"0"`
	Vocabularies    []string      `env:"FORMBIND_REDIS_VOCABULARIES" envSeparator:","`
	ReadTimeout     time.Duration `env:"FORMBIND_READ_TIMEOUT"     envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"FORMBIND_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer reads the server configuration from the process environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// LoadServerFrom reads the server configuration from environ instead of the
// process environment.
func LoadServerFrom(environ map[string]string) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
