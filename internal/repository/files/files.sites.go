// FilePath: internal/repository/files/files.sites.go
package files

import (
	"context"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
)

func (s *Store) ListSites(ctx context.Context) ([]*models.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := make([]*models.Site, 0, len(s.sites))
	for _, site := range s.sites {
		c := site.Clone()
		c.Normalize()
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetSite(ctx context.Context, id string) (*models.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	idx := s.findSite(id)
	if idx < 0 {
		return nil, nil
	}
	c := s.sites[idx].Clone()
	c.Normalize()
	return c, nil
}

func (s *Store) AddSite(ctx context.Context, patch *models.SitePatch) (*models.Site, error) {
	site, err := repository.PrepareSite(patch, s.opts.Clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	s.sites = append(s.sites, site)
	if err := s.saveSites(); err != nil {
		s.sites = s.sites[:len(s.sites)-1]
		return nil, err
	}
	return site.Clone(), nil
}

func (s *Store) UpdateSite(ctx context.Context, id string, patch *models.SitePatch) (*models.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	idx := s.findSite(id)
	if idx < 0 {
		return nil, nil
	}
	next, err := repository.MergeSite(s.sites[idx], patch, s.opts.Clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	prev := s.sites[idx]
	s.sites[idx] = next
	if err := s.saveSites(); err != nil {
		s.sites[idx] = prev
		return nil, err
	}
	return next.Clone(), nil
}

func (s *Store) DeleteSite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return false, err
	}

	idx := s.findSite(id)
	if idx < 0 {
		return false, nil
	}

	prev := s.sites
	s.sites = append(s.sites[:idx:idx], s.sites[idx+1:]...)
	if err := s.saveSites(); err != nil {
		s.sites = prev
		return false, err
	}

	changed := false
	for _, u := range s.users {
		if u.removeSite(id) {
			changed = true
		}
	}
	if changed {
		if err := s.saveUsers(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Store) findSite(id string) int {
	for i, site := range s.sites {
		if site.ID == id {
			return i
		}
	}
	return -1
}
