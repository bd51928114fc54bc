// FilePath: internal/repository/postgres/postgres.store.go
package postgres

import (
	"context"

	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Store is the Postgres backend.
type Store struct {
	*SiteRepo
	*UserRepo
	*TelemetryRepo

	base PostgresBaseRepo
	opts repository.Options
}

var _ repository.Store = (*Store)(nil)

// New wires the repositories onto one connection.
func New(db database.DB, opts repository.Options) *Store {
	opts = opts.WithDefaults()
	return &Store{
		SiteRepo:      NewSiteRepository(db, opts.Clock),
		UserRepo:      NewUserRepository(db, opts),
		TelemetryRepo: NewTelemetryRepository(db, opts.Clock),
		base:          PostgresBaseRepo{db: db},
		opts:          opts,
	}
}

func (s *Store) Kind() string { return repository.KindPostgres }

func (s *Store) Close() error { return s.base.Close() }

// Init creates or upgrades the schema, then seeds empty tables in one transaction.
func (s *Store) Init(ctx context.Context) error {
	if err := s.base.Ping(ctx); err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := s.base.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return s.base.WithTx(ctx, func(tx database.Transaction) error {
		return s.seed(ctx, tx)
	})
}

func (s *Store) seed(ctx context.Context, tx database.Transaction) error {
	now := s.opts.Clock.Now().UTC()

	var users int
	if err := tx.GetContext(ctx, &users, `SELECT COUNT(*) FROM users`); err != nil {
		return errors.NewDatabaseError("failed to count users", err)
	}
	if users == 0 {
		seeded, err := repository.SeedUsers(s.opts, now)
		if err != nil {
			return errors.NewInternalError("failed to seed users", err)
		}
		for _, u := range seeded {
			if err := insertUser(ctx, tx, u); err != nil {
				return errors.NewDatabaseError("failed to seed user", err)
			}
		}
		nuts.L.Infof("[PostgresStore] Seeded %d user(s), admin %q", len(seeded), s.opts.Seed.AdminUsername)
	}

	var sites int
	if err := tx.GetContext(ctx, &sites, `SELECT COUNT(*) FROM sites`); err != nil {
		return errors.NewDatabaseError("failed to count sites", err)
	}
	if sites == 0 {
		if err := insertSite(ctx, tx, repository.SampleSite(now)); err != nil {
			return errors.NewDatabaseError("failed to seed sample site", err)
		}
		nuts.L.Infof("[PostgresStore] Seeded sample site %s", repository.SampleSiteID)
	}

	if !s.opts.Seed.DemoSensor {
		return nil
	}
	var sensors int
	if err := tx.GetContext(ctx, &sensors, `SELECT COUNT(*) FROM sensors`); err != nil {
		return errors.NewDatabaseError("failed to count sensors", err)
	}
	if sensors > 0 {
		return nil
	}
	var hasSample bool
	if err := tx.GetContext(ctx, &hasSample, `SELECT EXISTS (SELECT 1 FROM sites WHERE id = $1)`, repository.SampleSiteID); err != nil {
		return errors.NewDatabaseError("failed to check sample site", err)
	}
	if !hasSample {
		return nil
	}
	demo := &models.Sensor{
		ID:          repository.NewID(repository.SensorPrefix),
		SiteID:      repository.SampleSiteID,
		Code:        repository.DemoSensorCode,
		InstalledAt: now,
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO sensors (id, site_id, code, installed_at) VALUES ($1, $2, $3, $4)`,
		demo.ID, demo.SiteID, demo.Code, demo.InstalledAt)
	if err != nil {
		return errors.NewDatabaseError("failed to seed demo sensor", err)
	}
	nuts.L.Infof("[PostgresStore] Seeded demo sensor %s", repository.DemoSensorCode)
	return nil
}
