// FilePath: internal/repository/repository.go
package repository

import (
	"context"

	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/jonboulle/clockwork"
)

// Backend kinds reported by Store.Kind.
const (
	KindFile     = "file"
	KindPostgres = "postgres"
)

// Measurement retention: once more than MaxMeasurements are stored, the oldest
// are dropped until RetainMeasurements remain.
const (
	MaxMeasurements    = 5000
	RetainMeasurements = 4000
)

// SiteRepository defines site persistence. Absent ids are reported through
// nil / false results, never errors.
type SiteRepository interface {
	ListSites(ctx context.Context) ([]*models.Site, error)
	GetSite(ctx context.Context, id string) (*models.Site, error)
	AddSite(ctx context.Context, patch *models.SitePatch) (*models.Site, error)
	UpdateSite(ctx context.Context, id string, patch *models.SitePatch) (*models.Site, error)
	// DeleteSite removes the site and strips its id from every user's site list.
	DeleteSite(ctx context.Context, id string) (bool, error)
}

// UserRepository defines account persistence. Returned users never carry a password.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, in *models.NewUser) (string, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
	UpdateUserSites(ctx context.Context, id string, siteIDs []string) ([]string, bool, error)
	FindUserByCredentials(ctx context.Context, identifier, password string) (*models.User, error)
}

// TelemetryRepository defines sensor and measurement persistence.
type TelemetryRepository interface {
	ListSensorsBySite(ctx context.Context, siteID string) ([]*models.Sensor, error)
	RegisterSensor(ctx context.Context, siteID, code string) (*models.Sensor, error)
	AddMeasurement(ctx context.Context, sensorID string, metrics models.Metrics) (*models.Measurement, error)
	// LatestMeasurementsForSite returns up to limit newest readings, oldest first.
	LatestMeasurementsForSite(ctx context.Context, siteID string, limit int) ([]*models.Measurement, error)
	DeleteBySite(ctx context.Context, siteID string) (int, error)
}

// Store is one storage backend.
type Store interface {
	SiteRepository
	UserRepository
	TelemetryRepository
	// Init prepares the backend and seeds it when empty. Idempotent.
	Init(ctx context.Context) error
	Kind() string
	Close() error
}

// Options are shared by every backend.
type Options struct {
	Verifier auth.PasswordVerifier
	Seed     SeedConfig
	Clock    clockwork.Clock
}

// WithDefaults fills unset options.
func (o Options) WithDefaults() Options {
	if o.Verifier == nil {
		o.Verifier = auth.NewVerifier(auth.SchemeBcrypt)
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	o.Seed = o.Seed.withDefaults()
	return o
}
