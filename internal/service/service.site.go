package service

import (
	"context"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SiteService handles site-related business logic
type SiteService interface {
	ListSites(ctx context.Context) ([]*models.Site, error)
	ListSitesFor(ctx context.Context, viewer *models.User) ([]*models.Site, error)
	GetSiteFor(ctx context.Context, viewer *models.User, id string) (*models.Site, error)
	AddSite(ctx context.Context, patch *models.SitePatch) (*models.Site, error)
	UpdateSite(ctx context.Context, id string, patch *models.SitePatch) (*models.Site, error)
	SetSiteStatus(ctx context.Context, id string, status any) (*models.Site, error)
	DeleteSite(ctx context.Context, id string) error
	PublicSites(ctx context.Context) ([]models.PublicSite, error)
}

var _ SiteService = (*Service)(nil)

func (s *Service) ListSites(ctx context.Context) ([]*models.Site, error) {
	sites, err := s.Store.ListSites(ctx)
	if err != nil {
		return nil, s.storageFailed("list_sites", err)
	}
	return sites, nil
}

// ListSitesFor returns the sites viewer may see.
func (s *Service) ListSitesFor(ctx context.Context, viewer *models.User) ([]*models.Site, error) {
	sites, err := s.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Site, 0, len(sites))
	for _, site := range sites {
		if viewer.CanAccessSite(site.ID) {
			visible = append(visible, site)
		}
	}
	return visible, nil
}

// GetSiteFor returns the site when it exists and viewer may see it. Both
// cases answer NOT_FOUND so site ids do not leak across customers.
func (s *Service) GetSiteFor(ctx context.Context, viewer *models.User, id string) (*models.Site, error) {
	if viewer == nil || !viewer.CanAccessSite(id) {
		return nil, errors.NewNotFoundError("site not found", nil)
	}
	site, err := s.Store.GetSite(ctx, id)
	if err != nil {
		return nil, s.storageFailed("get_site", err)
	}
	if site == nil {
		return nil, errors.NewNotFoundError("site not found", nil)
	}
	return site, nil
}

func (s *Service) AddSite(ctx context.Context, patch *models.SitePatch) (*models.Site, error) {
	site, err := s.Store.AddSite(ctx, patch)
	if err != nil {
		return nil, s.storageFailed("add_site", err)
	}
	nuts.L.Infof("[SiteService] Created site %s (%s)", site.Name, site.ID)
	return site, nil
}

func (s *Service) UpdateSite(ctx context.Context, id string, patch *models.SitePatch) (*models.Site, error) {
	site, err := s.Store.UpdateSite(ctx, id, patch)
	if err != nil {
		return nil, s.storageFailed("update_site", err)
	}
	if site == nil {
		return nil, errors.NewNotFoundError("site not found", nil)
	}
	nuts.L.Infof("[SiteService] Updated site %s", id)
	return site, nil
}

// SetSiteStatus overrides the manual status of a site.
func (s *Service) SetSiteStatus(ctx context.Context, id string, status any) (*models.Site, error) {
	return s.UpdateSite(ctx, id, models.StatusPatch(status))
}

// DeleteSite removes the site and cascades to user assignments and telemetry.
func (s *Service) DeleteSite(ctx context.Context, id string) error {
	deleted, err := s.Cleanup.DeleteSite(ctx, id)
	if err != nil {
		return s.storageFailed("delete_site", err)
	}
	if !deleted {
		return errors.NewNotFoundError("site not found", nil)
	}
	nuts.L.Infof("[SiteService] Deleted site %s", id)
	return nil
}

// PublicSites lists every site reduced to its map fields.
func (s *Service) PublicSites(ctx context.Context) ([]models.PublicSite, error) {
	sites, err := s.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicSite, 0, len(sites))
	for _, site := range sites {
		out = append(out, site.Public())
	}
	return out, nil
}
