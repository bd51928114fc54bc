// FilePath: internal/models/models.site.go
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/airx/beds/server/hub/internal/normalize"
)

// Site is a monitored building. Status is the admin override; the derived
// condition comes from the status engine.
type Site struct {
	ID                string            `json:"id" db:"id"`
	Name              string            `json:"name" db:"name"`
	Address           string            `json:"address" db:"address"`
	Latitude          *float64          `json:"latitude" db:"latitude"`
	Longitude         *float64          `json:"longitude" db:"longitude"`
	SensorCount       int               `json:"sensorCount" db:"sensor_count"`
	BuildingSize      string            `json:"buildingSize" db:"building_size"`
	BuildingYear      string            `json:"buildingYear" db:"building_year"`
	Notes             string            `json:"notes" db:"notes"`
	Status            SiteStatus        `json:"status" db:"status"`
	ConstructionState ConstructionState `json:"constructionState" db:"construction_state"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time         `json:"updatedAt" db:"updated_at"`
}

type siteJSON struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Address            string            `json:"address"`
	Latitude           *float64          `json:"latitude"`
	Longitude          *float64          `json:"longitude"`
	SensorCount        int               `json:"sensorCount"`
	BuildingSize       string            `json:"buildingSize"`
	BuildingYear       string            `json:"buildingYear"`
	Notes              string            `json:"notes"`
	Status             SiteStatus        `json:"status"`
	ConstructionState  ConstructionState `json:"constructionState"`
	ConstructionStatus ConstructionState `json:"constructionStatus"`
	ConstructionLegacy ConstructionState `json:"construction_state"`
	CreatedAt          *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time        `json:"updatedAt,omitempty"`
}

// MarshalJSON writes the canonical construction key and mirrors both legacy keys.
func (s Site) MarshalJSON() ([]byte, error) {
	out := siteJSON{
		ID:                 s.ID,
		Name:               s.Name,
		Address:            s.Address,
		Latitude:           s.Latitude,
		Longitude:          s.Longitude,
		SensorCount:        s.SensorCount,
		BuildingSize:       s.BuildingSize,
		BuildingYear:       s.BuildingYear,
		Notes:              s.Notes,
		Status:             NormalizeStatus(string(s.Status)),
		ConstructionState:  NormalizeConstructionState(string(s.ConstructionState)),
		ConstructionStatus: NormalizeConstructionState(string(s.ConstructionState)),
		ConstructionLegacy: NormalizeConstructionState(string(s.ConstructionState)),
	}
	if !s.CreatedAt.IsZero() {
		out.CreatedAt = &s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		out.UpdatedAt = &s.UpdatedAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts every stored shape a site has had: the three
// construction keys, lat/lng, sensorCountPlanned and a numeric buildYear.
func (s *Site) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	lat, _ := normalize.FirstPresent(m, "latitude", "lat")
	lng, _ := normalize.FirstPresent(m, "longitude", "lng")
	count, _ := normalize.FirstPresent(m, "sensorCount", "sensorCountPlanned")
	year, _ := normalize.FirstPresent(m, "buildingYear", "buildYear")
	construction, _ := ConstructionStateFrom(m)

	*s = Site{
		ID:                normalize.Text(m["id"]),
		Name:              normalize.Text(m["name"]),
		Address:           normalize.Text(m["address"]),
		Latitude:          normalize.Coordinate(lat),
		Longitude:         normalize.Coordinate(lng),
		SensorCount:       normalize.Count(count),
		BuildingSize:      normalize.Text(m["buildingSize"]),
		BuildingYear:      normalize.Text(year),
		Notes:             normalize.Text(m["notes"]),
		Status:            NormalizeStatus(m["status"]),
		ConstructionState: construction,
		CreatedAt:         parseTime(m["createdAt"]),
		UpdatedAt:         parseTime(m["updatedAt"]),
	}
	return nil
}

// Normalize re-coerces the enum fields in place.
func (s *Site) Normalize() {
	s.Status = NormalizeStatus(string(s.Status))
	s.ConstructionState = NormalizeConstructionState(string(s.ConstructionState))
	if s.SensorCount < 0 {
		s.SensorCount = 0
	}
}

// Validate checks the fields every stored site must carry.
func (s *Site) Validate() bool {
	return strings.TrimSpace(s.Name) != "" && strings.TrimSpace(s.Address) != ""
}

// Clone returns a deep copy so callers can't mutate stored state.
func (s *Site) Clone() *Site {
	c := *s
	if s.Latitude != nil {
		lat := *s.Latitude
		c.Latitude = &lat
	}
	if s.Longitude != nil {
		lng := *s.Longitude
		c.Longitude = &lng
	}
	return &c
}

// PublicSite is the unauthenticated map view of a site.
type PublicSite struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Public strips a site down to its map fields.
func (s *Site) Public() PublicSite {
	return PublicSite{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}

func parseTime(v any) time.Time {
	str, ok := v.(string)
	if !ok || str == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}
	}
	return t
}
