// FilePath: internal/repository/files/files.telemetry.go
package files

import (
	"context"
	"sort"
	"strings"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
)

func (s *Store) ListSensorsBySite(ctx context.Context, siteID string) ([]*models.Sensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := []*models.Sensor{}
	for _, sn := range s.sensors {
		if sn.SiteID == siteID {
			out = append(out, sn.Clone())
		}
	}
	return out, nil
}

// RegisterSensor returns the sensor with code, creating it on siteID when unknown.
// An existing sensor keeps its original site.
func (s *Store) RegisterSensor(ctx context.Context, siteID, code string) (*models.Sensor, error) {
	code = strings.TrimSpace(code)
	if siteID == "" || code == "" {
		return nil, errors.NewValidationError("siteId and sensorCode are required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	for _, sn := range s.sensors {
		if sn.Code == code {
			return sn.Clone(), nil
		}
	}

	sensor := &models.Sensor{
		ID:          repository.NewID(repository.SensorPrefix),
		SiteID:      siteID,
		Code:        code,
		InstalledAt: s.opts.Clock.Now().UTC(),
	}
	s.sensors = append(s.sensors, sensor)
	if err := s.saveTelemetry(); err != nil {
		s.sensors = s.sensors[:len(s.sensors)-1]
		return nil, err
	}
	return sensor.Clone(), nil
}

// AddMeasurement appends a reading, stamps the sensor's lastSeenAt and applies retention.
func (s *Store) AddMeasurement(ctx context.Context, sensorID string, metrics models.Metrics) (*models.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	var sensor *models.Sensor
	for _, sn := range s.sensors {
		if sn.ID == sensorID {
			sensor = sn
			break
		}
	}
	if sensor == nil {
		return nil, errors.NewNotFoundError("sensor not found", nil)
	}

	now := s.opts.Clock.Now().UTC()
	m := &models.Measurement{
		ID:        repository.NewID(repository.MeasurementPrefix),
		SensorID:  sensorID,
		CreatedAt: now,
		Metrics:   metrics,
	}

	prevReadings, prevSeen := s.readings, sensor.LastSeenAt
	s.readings = append(s.readings, m)
	sensor.LastSeenAt = &now
	if len(s.readings) > repository.MaxMeasurements {
		s.readings = append([]*models.Measurement(nil), s.readings[len(s.readings)-repository.RetainMeasurements:]...)
	}

	if err := s.saveTelemetry(); err != nil {
		s.readings, sensor.LastSeenAt = prevReadings, prevSeen
		return nil, err
	}
	c := *m
	return &c, nil
}

func (s *Store) LatestMeasurementsForSite(ctx context.Context, siteID string, limit int) ([]*models.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	owned := make(map[string]struct{})
	for _, sn := range s.sensors {
		if sn.SiteID == siteID {
			owned[sn.ID] = struct{}{}
		}
	}

	list := []*models.Measurement{}
	for _, m := range s.readings {
		if _, ok := owned[m.SensorID]; ok {
			c := *m
			list = append(list, &c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list, nil
}

// DeleteBySite drops the site's sensors and their readings, returning how many sensors went.
func (s *Store) DeleteBySite(ctx context.Context, siteID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return 0, err
	}

	removed := make(map[string]struct{})
	sensors := make([]*models.Sensor, 0, len(s.sensors))
	for _, sn := range s.sensors {
		if sn.SiteID == siteID {
			removed[sn.ID] = struct{}{}
			continue
		}
		sensors = append(sensors, sn)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	readings := make([]*models.Measurement, 0, len(s.readings))
	for _, m := range s.readings {
		if _, ok := removed[m.SensorID]; !ok {
			readings = append(readings, m)
		}
	}

	prevSensors, prevReadings := s.sensors, s.readings
	s.sensors, s.readings = sensors, readings
	if err := s.saveTelemetry(); err != nil {
		s.sensors, s.readings = prevSensors, prevReadings
		return 0, err
	}
	return len(removed), nil
}
