// FilePath: internal/repository/postgres/postgres.telemetry.go
package postgres

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

const foreignKeyViolation = "23503"

type TelemetryRepo struct {
	PostgresBaseRepo
	clock clockwork.Clock
}

func NewTelemetryRepository(db database.DB, clock clockwork.Clock) *TelemetryRepo {
	repo := &PostgresBaseRepo{db: db}
	return &TelemetryRepo{PostgresBaseRepo: *repo, clock: clock}
}

func (r *TelemetryRepo) ListSensorsBySite(ctx context.Context, siteID string) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT ` + sensorColumns + ` FROM sensors WHERE site_id = $1 ORDER BY installed_at ASC`

	if err := r.conn().SelectContext(ctx, &sensors, query, siteID); err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}

// RegisterSensor returns the sensor with code, creating it on siteID when unknown.
func (r *TelemetryRepo) RegisterSensor(ctx context.Context, siteID, code string) (*models.Sensor, error) {
	code = strings.TrimSpace(code)
	if siteID == "" || code == "" {
		return nil, errors.NewValidationError("siteId and sensorCode are required", nil)
	}

	_, err := r.conn().ExecContext(ctx, `
		INSERT INTO sensors (id, site_id, code, installed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING`,
		repository.NewID(repository.SensorPrefix), siteID, code, r.clock.Now().UTC(),
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return nil, errors.NewNotFoundError("site not found", err)
		}
		return nil, errors.NewDatabaseError("failed to register sensor", err)
	}

	sensor := &models.Sensor{}
	query := `SELECT ` + sensorColumns + ` FROM sensors WHERE code = $1`
	if err := r.conn().GetContext(ctx, sensor, query, code); err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

// AddMeasurement stores a reading and stamps the sensor's last_seen_at in one
// transaction, then trims the table when it outgrows the retention cap.
func (r *TelemetryRepo) AddMeasurement(ctx context.Context, sensorID string, metrics models.Metrics) (*models.Measurement, error) {
	m := &models.Measurement{
		ID:        repository.NewID(repository.MeasurementPrefix),
		SensorID:  sensorID,
		CreatedAt: r.clock.Now().UTC(),
		Metrics:   metrics,
	}

	err := r.WithTx(ctx, func(tx database.Transaction) error {
		res, err := tx.ExecContext(ctx, `UPDATE sensors SET last_seen_at = $2 WHERE id = $1`, sensorID, m.CreatedAt)
		if err != nil {
			return errors.NewDatabaseError("failed to update sensor", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return errors.NewDatabaseError("failed to get rows affected", err)
		}
		if rows == 0 {
			return errors.NewNotFoundError("sensor not found", nil)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO measurements (`+measurementColumns+`)
			VALUES ($1, $2, $3, $4::jsonb)`,
			m.ID, m.SensorID, m.CreatedAt, m.Metrics,
		)
		if err != nil {
			return errors.NewDatabaseError("failed to insert measurement", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.applyRetention(ctx); err != nil {
		nuts.L.Warnf("[TelemetryRepo] Retention pass failed: %v", err)
	}
	return m, nil
}

func (r *TelemetryRepo) applyRetention(ctx context.Context) error {
	var count int
	if err := r.conn().GetContext(ctx, &count, `SELECT COUNT(*) FROM measurements`); err != nil {
		return errors.NewDatabaseError("failed to count measurements", err)
	}
	if count <= repository.MaxMeasurements {
		return nil
	}
	_, err := r.ExecContext(ctx, `
		DELETE FROM measurements
		 WHERE id IN (
		       SELECT id FROM measurements
		        ORDER BY created_at DESC, id DESC
		       OFFSET $1
		 )`, repository.RetainMeasurements)
	return err
}

func (r *TelemetryRepo) LatestMeasurementsForSite(ctx context.Context, siteID string, limit int) ([]*models.Measurement, error) {
	if limit <= 0 || limit > repository.MaxMeasurements {
		limit = repository.MaxMeasurements
	}

	list := []*models.Measurement{}
	query := `
		SELECT m.id, m.sensor_id, m.created_at, m.metrics
		  FROM measurements m
		  JOIN sensors s ON s.id = m.sensor_id
		 WHERE s.site_id = $1
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT $2`
	if err := r.conn().SelectContext(ctx, &list, query, siteID, limit); err != nil {
		return nil, errors.NewDatabaseError("failed to list measurements", err)
	}
	slices.Reverse(list)
	return list, nil
}

// DeleteBySite removes the site's sensors; their measurements cascade.
func (r *TelemetryRepo) DeleteBySite(ctx context.Context, siteID string) (int, error) {
	res, err := r.ExecContext(ctx, `DELETE FROM sensors WHERE site_id = $1`, siteID)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return int(rows), nil
}
