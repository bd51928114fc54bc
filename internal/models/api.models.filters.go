// FilePath: internal/models/api.models.filters.go
package models

// MeasurementFilters are the query options for listing recent readings of a site.
type MeasurementFilters struct {
	Limit int `schema:"limit"`
}

// DefaultMeasurementLimit is how many readings a status report carries.
const DefaultMeasurementLimit = 50

// MaxMeasurementLimit caps a single listing.
const MaxMeasurementLimit = 500

// EffectiveLimit clamps Limit into [1, MaxMeasurementLimit], defaulting when unset.
func (f MeasurementFilters) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultMeasurementLimit
	case f.Limit > MaxMeasurementLimit:
		return MaxMeasurementLimit
	default:
		return f.Limit
	}
}
