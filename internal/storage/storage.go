// Package storage picks the persistence backend at boot. Nothing else in the
// service looks at which backend is active.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/config"
	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/airx/beds/server/hub/internal/repository/files"
	"github.com/airx/beds/server/hub/internal/repository/postgres"
	"github.com/jonboulle/clockwork"
	nuts "github.com/vaudience/go-nuts"
)

// Connector opens a database handle; swapped out in tests.
type Connector func(cfg config.DatabaseConfig) (database.DB, error)

// Open returns an initialized store: Postgres when a database URL is
// configured, the JSON file store otherwise.
func Open(ctx context.Context, cfg *config.Config, opts repository.Options) (repository.Store, error) {
	return OpenWith(ctx, cfg, opts, database.NewPostgresDB)
}

// OpenWith is Open with an explicit connector.
func OpenWith(ctx context.Context, cfg *config.Config, opts repository.Options, connect Connector) (repository.Store, error) {
	var store repository.Store

	if strings.TrimSpace(cfg.Database.URL) != "" {
		db, err := connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = postgres.New(db, opts)
	} else {
		nuts.L.Warnf("[Storage] No database url configured, using JSON files in %s", cfg.Storage.DataDir)
		store = files.New(cfg.Storage.DataDir, opts)
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", store.Kind(), err)
	}
	nuts.L.Infof("[Storage] Using %s storage", store.Kind())
	return store, nil
}

// OptionsFromConfig builds backend options from the auth and seed sections.
func OptionsFromConfig(cfg *config.Config, clock clockwork.Clock) repository.Options {
	seed := cfg.Seed
	return repository.Options{
		Verifier: auth.NewVerifier(cfg.Auth.PasswordScheme),
		Clock:    clock,
		Seed: repository.SeedConfig{
			AdminUsername:    seed.AdminUsername,
			AdminPassword:    seed.AdminPassword,
			AdminEmail:       seed.AdminEmail,
			DemoCustomer:     seed.DemoCustomer,
			CustomerUsername: seed.CustomerUsername,
			CustomerPassword: seed.CustomerPassword,
			DemoSensor:       seed.DemoSensor,
		},
	}.WithDefaults()
}
