package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/config"
	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFallsBackToFiles(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{DataDir: t.TempDir()}}
	called := false
	connect := func(config.DatabaseConfig) (database.DB, error) {
		called = true
		return nil, fmt.Errorf("should not dial")
	}

	store, err := OpenWith(context.Background(), cfg, repository.Options{}, connect)
	require.NoError(t, err)
	defer store.Close()

	assert.False(t, called)
	assert.Equal(t, repository.KindFile, store.Kind())

	sites, err := store.ListSites(context.Background())
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestOpenSelectsPostgresWhenURLSet(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: "postgres://db/beds"},
		Storage:  config.StorageConfig{DataDir: t.TempDir()},
	}
	var got config.DatabaseConfig
	connect := func(c config.DatabaseConfig) (database.DB, error) {
		got = c
		return nil, fmt.Errorf("unreachable")
	}

	_, err := OpenWith(context.Background(), cfg, repository.Options{}, connect)
	require.Error(t, err)
	assert.Equal(t, "postgres://db/beds", got.URL)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Auth: config.AuthConfig{PasswordScheme: "plain"},
		Seed: config.SeedConfig{AdminUsername: "root", DemoSensor: true},
	}

	opts := OptionsFromConfig(cfg, nil)

	assert.IsType(t, auth.PlainVerifier{}, opts.Verifier)
	assert.NotNil(t, opts.Clock)
	assert.Equal(t, "root", opts.Seed.AdminUsername)
	assert.NotEmpty(t, opts.Seed.AdminPassword)
	assert.True(t, opts.Seed.DemoSensor)
}
