package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"

	"github.com/medseg/scanflow/internal/common"
)

// Config carries the resolved settings every command needs.
type Config struct {
	BackendURL    string
	JournalPath   string
	DefaultConfig string
}

// Load resolves configuration from viper. Call after viper has read
// the config file and environment.
func Load() (*Config, error) {
	backendURL := viper.GetString("backend.url")
	if backendURL == "" {
		return nil, fmt.Errorf("%w: backend.url is not set (flag --backend, env SCANFLOW_BACKEND_URL, or config file)", common.ErrMissingConfig)
	}
	parsed, err := url.Parse(backendURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: backend.url %q is not an absolute URL", common.ErrInvalidConfig, backendURL)
	}

	journalPath := ExpandPath(viper.GetString("journal.path"))
	if journalPath == "" {
		journalPath, err = DefaultJournalPath()
		if err != nil {
			return nil, err
		}
	}

	defaultConfig := viper.GetString("upload.config")
	if defaultConfig == "" {
		defaultConfig = "2d"
	}

	return &Config{
		BackendURL:    backendURL,
		JournalPath:   journalPath,
		DefaultConfig: defaultConfig,
	}, nil
}
