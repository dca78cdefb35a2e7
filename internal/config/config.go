package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config contains client configuration parameters, read from PLUMA_*
// environment variables.
type Config struct {
	AppName     string        `env:"APP_NAME" envDefault:"PlumaSphere"`
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	WSBaseURL   string        `env:"WS_BASE_URL" envDefault:"ws://localhost:8080"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	DataDir     string        `env:"DATA_DIR"`
	LogLevel    int           `env:"LOG_LEVEL" envDefault:"1"`
}

// New loads configuration from the environment. When PLUMA_DATA_DIR is
// unset, the store lives under the user's config directory.
func New() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PLUMA_"}); err != nil {
		return nil, errors.Wrap(err, "[config.New] parse environment")
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "[config.New] resolve user config dir")
		}
		cfg.DataDir = filepath.Join(base, "plumasphere")
	}

	return &cfg, nil
}
