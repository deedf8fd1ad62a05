package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medseg/scanflow/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "/var/lib/scanflow", want: "/var/lib/scanflow"},
		{name: "tilde prefix", in: "~/data", want: filepath.Join(home, "data")},
		{name: "bare tilde", in: "~", want: home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestExpandPathEnvVar(t *testing.T) {
	t.Setenv("SCANFLOW_TEST_DIR", "/srv/scans")
	assert.Equal(t, "/srv/scans/x", ExpandPath("$SCANFLOW_TEST_DIR/x"))
}

func TestLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("backend.url", "http://localhost:5000")
	viper.Set("journal.path", "/tmp/journal.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
	assert.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	assert.Equal(t, "2d", cfg.DefaultConfig)
}

func TestLoadMissingBackend(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	_, err := Load()
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestLoadInvalidBackendURL(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("backend.url", "not a url")

	_, err := Load()
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}
