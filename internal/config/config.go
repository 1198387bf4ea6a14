// Public domain.

// Package config loads BHTOM API settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/astrolabs/difphot/internal/bhtom"
)

const defaultHTTPTimeout = 60 * time.Second

// Env is the API configuration.
type Env struct {
	BaseURL     string
	Token       string
	CSRF        string
	HTTPTimeout time.Duration
}

// Load reads configuration from environment variables, first loading
// envFile if it exists.  Variables already set are not overridden.
func Load(envFile string) (Env, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	cfg := Env{}

	cfg.Token = strings.TrimSpace(os.Getenv("BHTOM_API_TOKEN"))
	if cfg.Token == "" {
		return cfg, errors.New("BHTOM_API_TOKEN is required")
	}

	cfg.BaseURL = strings.TrimSpace(os.Getenv("BHTOM_API_BASE_URL"))
	if cfg.BaseURL == "" {
		cfg.BaseURL = bhtom.DefaultBaseURL
	}

	cfg.CSRF = strings.TrimSpace(os.Getenv("BHTOM_CSRF_TOKEN"))

	cfg.HTTPTimeout = defaultHTTPTimeout
	if v := strings.TrimSpace(os.Getenv("BHTOM_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid BHTOM_HTTP_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("invalid BHTOM_HTTP_TIMEOUT: %s", v)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// Client returns an API client for cfg.
func (cfg Env) Client() *bhtom.Client {
	return bhtom.New(cfg.BaseURL, cfg.Token, cfg.CSRF, cfg.HTTPTimeout)
}
