package app

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client.
type Config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://localhost:3000/api"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	SessionFile string `envconfig:"SESSION_FILE" default:".stockdeck/session.json"`
	DownloadDir string `envconfig:"DOWNLOAD_DIR" default:"."`

	PageSize int `envconfig:"PAGE_SIZE" default:"12"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("STOCKDECK", &cfg); err != nil {
		return nil, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.APIBaseURL == "" {
		return nil, errors.New("api base url must be provided")
	}
	if cfg.PageSize <= 0 {
		return nil, errors.New("page size must be positive")
	}
	return &cfg, nil
}
