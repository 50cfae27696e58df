package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, StorageMemory, cfg.StorageDriver)
	require.True(t, cfg.EphemeralStorage())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestPostgresDriverIsDurable(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StoragePostgres)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.EphemeralStorage())
}
