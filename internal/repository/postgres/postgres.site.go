// FilePath: internal/repository/postgres/postgres.site.go
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/jonboulle/clockwork"
)

type SiteRepo struct {
	PostgresBaseRepo
	clock clockwork.Clock
}

func NewSiteRepository(db database.DB, clock clockwork.Clock) *SiteRepo {
	repo := &PostgresBaseRepo{db: db}
	return &SiteRepo{PostgresBaseRepo: *repo, clock: clock}
}

func (r *SiteRepo) ListSites(ctx context.Context) ([]*models.Site, error) {
	sites := []*models.Site{}
	query := `SELECT ` + siteColumns + ` FROM sites ORDER BY created_at ASC`

	if err := r.conn().SelectContext(ctx, &sites, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list sites", err)
	}
	for _, s := range sites {
		s.Normalize()
	}
	return sites, nil
}

func (r *SiteRepo) GetSite(ctx context.Context, id string) (*models.Site, error) {
	site := &models.Site{}
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`

	err := r.conn().GetContext(ctx, site, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to get site", err)
	}
	site.Normalize()
	return site, nil
}

func (r *SiteRepo) AddSite(ctx context.Context, patch *models.SitePatch) (*models.Site, error) {
	site, err := repository.PrepareSite(patch, r.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := insertSite(ctx, r.conn(), site); err != nil {
		return nil, errors.NewDatabaseError("failed to create site", err)
	}
	return site, nil
}

// UpdateSite reads, merges and writes back under a row lock.
func (r *SiteRepo) UpdateSite(ctx context.Context, id string, patch *models.SitePatch) (*models.Site, error) {
	var next *models.Site
	err := r.WithTx(ctx, func(tx database.Transaction) error {
		current := &models.Site{}
		query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, current, query, id); err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return errors.NewDatabaseError("failed to get site", err)
		}
		current.Normalize()

		merged, err := repository.MergeSite(current, patch, r.clock.Now().UTC())
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE sites
			   SET name = $2, address = $3, latitude = $4, longitude = $5, sensor_count = $6,
			       building_size = $7, building_year = $8, notes = $9, status = $10,
			       construction_state = $11, updated_at = $12
			 WHERE id = $1`,
			merged.ID, merged.Name, merged.Address, merged.Latitude, merged.Longitude, merged.SensorCount,
			merged.BuildingSize, merged.BuildingYear, merged.Notes, string(merged.Status),
			string(merged.ConstructionState), merged.UpdatedAt,
		)
		if err != nil {
			return errors.NewDatabaseError("failed to update site", err)
		}
		next = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// DeleteSite removes the site and strips it from every user's site list in one
// transaction. Sensors and measurements go with the site via ON DELETE CASCADE.
func (r *SiteRepo) DeleteSite(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.WithTx(ctx, func(tx database.Transaction) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, id)
		if err != nil {
			return errors.NewDatabaseError("failed to delete site", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return errors.NewDatabaseError("failed to get rows affected", err)
		}
		if rows == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			   SET site_ids = (
			       SELECT COALESCE(jsonb_agg(x), '[]'::jsonb)
			         FROM jsonb_array_elements_text(site_ids) AS x
			        WHERE x <> $1
			   )
			 WHERE site_ids ? $1`, id)
		if err != nil {
			return errors.NewDatabaseError("failed to detach site from users", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertSite(ctx context.Context, db execer, site *models.Site) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sites (`+siteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		site.ID, site.Name, site.Address, site.Latitude, site.Longitude, site.SensorCount,
		site.BuildingSize, site.BuildingYear, site.Notes, string(site.Status),
		string(site.ConstructionState), site.CreatedAt, site.UpdatedAt,
	)
	return err
}
