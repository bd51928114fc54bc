package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/events"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/status"
	nuts "github.com/vaudience/go-nuts"
)

// SensorService handles ingestion and status reporting
type SensorService interface {
	Ingest(ctx context.Context, req *IngestRequest) (*models.Measurement, error)
	SiteStatus(ctx context.Context, viewer *models.User, siteID string) (*SiteStatusReport, error)
	SiteMeasurements(ctx context.Context, viewer *models.User, siteID string, limit int) ([]*models.Measurement, error)
	SensorsWithStatus(ctx context.Context, siteID string) ([]status.SensorState, error)
}

var _ SensorService = (*Service)(nil)

// IngestRequest is a device reading. Shake and bending are kept only when numeric.
type IngestRequest struct {
	SiteID     string          `json:"siteId"`
	SensorCode string          `json:"sensorCode"`
	Shake      any             `json:"shake"`
	Bending    any             `json:"bending"`
	Raw        json.RawMessage `json:"raw"`
}

// SiteStatusReport is what a dashboard needs to render one site.
type SiteStatusReport struct {
	Site              models.PublicSite     `json:"site"`
	Level             status.Level          `json:"level"`
	Label             string                `json:"label"`
	Reason            string                `json:"reason"`
	Sensors           []status.SensorState  `json:"sensors"`
	LatestMeasurement *models.Measurement   `json:"latestMeasurement"`
	Measurements      []*models.Measurement `json:"measurements"`
	ConnectionLost    bool                  `json:"connectionLost"`
}

// Ingest registers the sensor on first sight, stores the reading and
// publishes the site's new level.
func (s *Service) Ingest(ctx context.Context, req *IngestRequest) (*models.Measurement, error) {
	siteID := strings.TrimSpace(req.SiteID)
	code := strings.TrimSpace(req.SensorCode)
	if siteID == "" || code == "" {
		return nil, errors.NewValidationError("siteId and sensorCode are required", nil)
	}

	site, err := s.Store.GetSite(ctx, siteID)
	if err != nil {
		return nil, s.storageFailed("get_site", err)
	}
	if site == nil {
		return nil, errors.NewNotFoundError("site not found", nil)
	}

	sensor, err := s.Store.RegisterSensor(ctx, siteID, code)
	if err != nil {
		return nil, s.storageFailed("register_sensor", err)
	}
	if sensor.SiteID != siteID {
		nuts.L.Warnf("[SensorService] Sensor %s belongs to site %s, reading for %s stored on the owner", code, sensor.SiteID, siteID)
	}

	measurement, err := s.Store.AddMeasurement(ctx, sensor.ID, models.NewMetrics(req.Shake, req.Bending, req.Raw))
	if err != nil {
		return nil, s.storageFailed("add_measurement", err)
	}
	s.Monitor.RecordIngest()

	s.publish(ctx, sensor.SiteID, sensor, measurement)
	return measurement, nil
}

// publish evaluates the owning site and fans the reading out. Failures only log.
func (s *Service) publish(ctx context.Context, siteID string, sensor *models.Sensor, m *models.Measurement) {
	sensors, err := s.Store.ListSensorsBySite(ctx, siteID)
	if err != nil {
		nuts.L.Warnf("[SensorService] Failed to list sensors of %s for publishing: %v", siteID, err)
		return
	}
	_, result := s.Engine.Evaluate(sensors, m)
	s.Monitor.RecordStatus(string(result.Level))

	evt := events.MeasurementEvent{
		SiteID:      siteID,
		SensorID:    sensor.ID,
		SensorCode:  sensor.Code,
		Measurement: m,
		Level:       string(result.Level),
	}
	if err := s.Publisher.Publish(ctx, evt); err != nil {
		nuts.L.Warnf("[SensorService] Failed to publish measurement %s: %v", m.ID, err)
	}
}

// SensorsWithStatus returns the site's sensors annotated with recency.
func (s *Service) SensorsWithStatus(ctx context.Context, siteID string) ([]status.SensorState, error) {
	sensors, err := s.Store.ListSensorsBySite(ctx, siteID)
	if err != nil {
		return nil, s.storageFailed("list_sensors", err)
	}
	return s.Engine.Sensors(sensors), nil
}

// SiteMeasurements returns up to limit recent readings, oldest first.
func (s *Service) SiteMeasurements(ctx context.Context, viewer *models.User, siteID string, limit int) ([]*models.Measurement, error) {
	if _, err := s.GetSiteFor(ctx, viewer, siteID); err != nil {
		return nil, err
	}
	list, err := s.Store.LatestMeasurementsForSite(ctx, siteID, limit)
	if err != nil {
		return nil, s.storageFailed("list_measurements", err)
	}
	return list, nil
}

// SiteStatus builds the dashboard report for a site the viewer may see.
func (s *Service) SiteStatus(ctx context.Context, viewer *models.User, siteID string) (*SiteStatusReport, error) {
	site, err := s.GetSiteFor(ctx, viewer, siteID)
	if err != nil {
		return nil, err
	}

	sensors, err := s.Store.ListSensorsBySite(ctx, siteID)
	if err != nil {
		return nil, s.storageFailed("list_sensors", err)
	}
	recent, err := s.Store.LatestMeasurementsForSite(ctx, siteID, s.measurementLimit)
	if err != nil {
		return nil, s.storageFailed("list_measurements", err)
	}

	var latest *models.Measurement
	if len(recent) > 0 {
		latest = recent[len(recent)-1]
	}
	states, result := s.Engine.Evaluate(sensors, latest)
	s.Monitor.RecordStatus(string(result.Level))

	return &SiteStatusReport{
		Site:              site.Public(),
		Level:             result.Level,
		Label:             result.Label,
		Reason:            result.Reason,
		Sensors:           states,
		LatestMeasurement: latest,
		Measurements:      recent,
		ConnectionLost:    status.AnyOffline(states),
	}, nil
}
