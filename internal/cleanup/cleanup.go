package cleanup

import (
	"context"
	"fmt"

	"github.com/airx/beds/server/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted after a successful cascade.
const (
	EventSiteDeleted      = "site.deleted"
	EventTelemetryDeleted = "telemetry.deleted"
)

// CleanupService coordinates deletion of a site and everything hanging off it
type CleanupService struct {
	sites     repository.SiteRepository
	telemetry repository.TelemetryRepository
	events    *nuts.EventEmitter
	handlers  int
}

// New creates a new CleanupService
func New(sites repository.SiteRepository, telemetry repository.TelemetryRepository) *CleanupService {
	return &CleanupService{
		sites:     sites,
		telemetry: telemetry,
		events:    nuts.NewEventEmitter(),
	}
}

// DeleteSite removes the site, its user references and its telemetry.
// Returns false when the site does not exist.
func (s *CleanupService) DeleteSite(ctx context.Context, siteID string) (bool, error) {
	// The store strips the id from users as part of the same delete.
	deleted, err := s.sites.DeleteSite(ctx, siteID)
	if err != nil {
		return false, fmt.Errorf("failed to delete site: %w", err)
	}
	if !deleted {
		return false, nil
	}
	s.events.Emit(EventSiteDeleted, siteID)

	sensors, err := s.telemetry.DeleteBySite(ctx, siteID)
	if err != nil {
		// The site is already gone; orphaned readings are unreachable.
		nuts.L.Warnf("[Cleanup] Failed to delete telemetry of site %s: %v", siteID, err)
		return true, nil
	}
	s.events.Emit(EventTelemetryDeleted, siteID, sensors)
	return true, nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.handlers++
	s.events.On(event, fmt.Sprintf("cleanup_handler_%d", s.handlers), func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
