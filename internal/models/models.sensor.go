// FilePath: internal/models/models.sensor.go
package models

import "time"

// Sensor is a measurement source installed on exactly one site. Code is unique
// and is what edge devices identify themselves by.
type Sensor struct {
	ID          string     `json:"id" db:"id"`
	SiteID      string     `json:"siteId" db:"site_id"`
	Code        string     `json:"code" db:"code"`
	InstalledAt time.Time  `json:"installedAt" db:"installed_at"`
	LastSeenAt  *time.Time `json:"lastSeenAt" db:"last_seen_at"`
}

// Clone returns a deep copy.
func (s *Sensor) Clone() *Sensor {
	c := *s
	if s.LastSeenAt != nil {
		t := *s.LastSeenAt
		c.LastSeenAt = &t
	}
	return &c
}
