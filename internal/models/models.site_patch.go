// FilePath: internal/models/models.site_patch.go
package models

import (
	"encoding/json"
	"strings"

	"github.com/airx/beds/server/hub/internal/normalize"
)

// CoordinateField records how a coordinate appeared in a payload.
type CoordinateField struct {
	Present bool     // key was sent
	Null    bool     // sent as explicit null
	Value   *float64 // finite value, nil when null or unparseable
}

// SitePatch carries only the site fields a caller actually sent. It serves both
// registration (absent fields take defaults) and edits (absent fields are kept).
type SitePatch struct {
	Name              *string
	Address           *string
	Latitude          CoordinateField
	Longitude         CoordinateField
	SensorCount       *int
	BuildingSize      *string
	BuildingYear      *string
	Notes             *string
	Status            *SiteStatus
	ConstructionState *ConstructionState
}

// UnmarshalJSON coerces each present key; keys with unusable values are dropped.
func (p *SitePatch) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = SitePatchFromMap(m)
	return nil
}

// SitePatchFromMap builds a patch from a decoded JSON object.
func SitePatchFromMap(m map[string]any) SitePatch {
	var p SitePatch

	if s, ok := m["name"].(string); ok {
		s = strings.TrimSpace(s)
		p.Name = &s
	}
	if s, ok := m["address"].(string); ok {
		s = strings.TrimSpace(s)
		p.Address = &s
	}
	p.Latitude = coordinateField(m, "latitude", "lat")
	p.Longitude = coordinateField(m, "longitude", "lng")

	if v, ok := normalize.FirstPresent(m, "sensorCount", "sensorCountPlanned"); ok {
		if n, ok := normalize.CountOK(v); ok {
			p.SensorCount = &n
		}
	}
	if s, ok := normalize.TextOK(m["buildingSize"]); ok {
		p.BuildingSize = &s
	}
	if v, ok := normalize.FirstPresent(m, "buildingYear", "buildYear"); ok {
		if s, ok := normalize.TextOK(v); ok {
			p.BuildingYear = &s
		}
	}
	if s, ok := normalize.TextOK(m["notes"]); ok {
		p.Notes = &s
	}
	if v, ok := m["status"]; ok && v != nil {
		st := NormalizeStatus(v)
		p.Status = &st
	}
	if cs, ok := ConstructionStateFrom(m); ok {
		p.ConstructionState = &cs
	}
	return p
}

func coordinateField(m map[string]any, keys ...string) CoordinateField {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if v == nil {
			return CoordinateField{Present: true, Null: true}
		}
		return CoordinateField{Present: true, Value: normalize.Coordinate(v)}
	}
	return CoordinateField{}
}

// NewSite builds a site for registration. Missing fields take their defaults:
// null coordinates, zero sensors, SAFE, IN_PROGRESS.
func (p *SitePatch) NewSite(id string) *Site {
	site := &Site{
		ID:                id,
		Status:            SiteStatusSafe,
		ConstructionState: ConstructionInProgress,
	}
	if p.Name != nil {
		site.Name = *p.Name
	}
	if p.Address != nil {
		site.Address = *p.Address
	}
	site.Latitude = p.Latitude.Value
	site.Longitude = p.Longitude.Value
	if p.SensorCount != nil {
		site.SensorCount = *p.SensorCount
	}
	if p.BuildingSize != nil {
		site.BuildingSize = *p.BuildingSize
	}
	if p.BuildingYear != nil {
		site.BuildingYear = *p.BuildingYear
	}
	if p.Notes != nil {
		site.Notes = *p.Notes
	}
	if p.Status != nil {
		site.Status = *p.Status
	}
	if p.ConstructionState != nil {
		site.ConstructionState = *p.ConstructionState
	}
	return site
}

// Apply merges the patch onto a copy of site. Coordinates sent as null are
// cleared; coordinates that failed to parse are ignored.
func (p *SitePatch) Apply(site *Site) *Site {
	next := site.Clone()
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Address != nil {
		next.Address = *p.Address
	}
	if p.Latitude.Null {
		next.Latitude = nil
	} else if p.Latitude.Value != nil {
		next.Latitude = p.Latitude.Value
	}
	if p.Longitude.Null {
		next.Longitude = nil
	} else if p.Longitude.Value != nil {
		next.Longitude = p.Longitude.Value
	}
	if p.SensorCount != nil {
		next.SensorCount = *p.SensorCount
	}
	if p.BuildingSize != nil {
		next.BuildingSize = *p.BuildingSize
	}
	if p.BuildingYear != nil {
		next.BuildingYear = *p.BuildingYear
	}
	if p.Notes != nil {
		next.Notes = *p.Notes
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.ConstructionState != nil {
		next.ConstructionState = *p.ConstructionState
	}
	next.Normalize()
	return next
}

// StatusPatch is a patch that only sets the status override.
func StatusPatch(status any) *SitePatch {
	st := NormalizeStatus(status)
	return &SitePatch{Status: &st}
}
