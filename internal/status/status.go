// FilePath: internal/status/status.go
package status

import (
	"time"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/jonboulle/clockwork"
)

// Level is the derived condition of a site.
type Level string

const (
	LevelEmpty   Level = "EMPTY"
	LevelOffline Level = "OFFLINE"
	LevelAlert   Level = "ALERT"
	LevelCaution Level = "CAUTION"
	LevelSafe    Level = "SAFE"
)

// Levels lists every level in evaluation priority order.
var Levels = []Level{LevelEmpty, LevelOffline, LevelAlert, LevelCaution, LevelSafe}

// Thresholds tune the engine. High and Mid apply to both shake and bending.
type Thresholds struct {
	Offline time.Duration
	High    float64
	Mid     float64
}

// DefaultThresholds are used whenever a field is left at zero.
var DefaultThresholds = Thresholds{
	Offline: 60 * time.Second,
	High:    0.3,
	Mid:     0.1,
}

func (t Thresholds) withDefaults() Thresholds {
	if t.Offline <= 0 {
		t.Offline = DefaultThresholds.Offline
	}
	if t.High <= 0 {
		t.High = DefaultThresholds.High
	}
	if t.Mid <= 0 {
		t.Mid = DefaultThresholds.Mid
	}
	return t
}

// SensorState is a sensor annotated with its recency at evaluation time.
type SensorState struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	SiteID      string     `json:"siteId"`
	InstalledAt time.Time  `json:"installedAt"`
	LastSeenAt  *time.Time `json:"lastSeenAt"`
	Offline     bool       `json:"offline"`
	LastDiffSec *float64   `json:"lastDiffSec"`
}

// Result is the outcome of an evaluation.
type Result struct {
	Level  Level  `json:"level"`
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

var results = map[Level]Result{
	LevelEmpty:   {Level: LevelEmpty, Label: "No sensors", Reason: "no sensors are installed on this site"},
	LevelOffline: {Level: LevelOffline, Label: "Signal lost", Reason: "no data is arriving from any sensor"},
	LevelAlert:   {Level: LevelAlert, Label: "Alert", Reason: "latest reading is at or above the critical threshold"},
	LevelCaution: {Level: LevelCaution, Label: "Caution", Reason: "a reading is elevated or some sensors are offline"},
	LevelSafe:    {Level: LevelSafe, Label: "Safe", Reason: "recent data shows a stable condition"},
}

// ResultFor returns the canonical label and reason for a level.
func ResultFor(level Level) Result {
	return results[level]
}

// ClassifySensors marks each sensor offline when it has never reported or
// last reported more than offline ago.
func ClassifySensors(sensors []*models.Sensor, now time.Time, offline time.Duration) []SensorState {
	states := make([]SensorState, 0, len(sensors))
	for _, s := range sensors {
		state := SensorState{
			ID:          s.ID,
			Code:        s.Code,
			SiteID:      s.SiteID,
			InstalledAt: s.InstalledAt,
			LastSeenAt:  s.LastSeenAt,
			Offline:     true,
		}
		if s.LastSeenAt != nil {
			diff := now.Sub(*s.LastSeenAt)
			sec := diff.Seconds()
			state.LastDiffSec = &sec
			state.Offline = diff > offline
		}
		states = append(states, state)
	}
	return states
}

// Evaluate derives the site level. First match wins: no sensors, all offline,
// any metric at or above High, any metric at or above Mid or any sensor
// offline, otherwise safe. Missing metrics never meet a threshold.
func Evaluate(states []SensorState, latest *models.Measurement, th Thresholds) Result {
	th = th.withDefaults()

	if len(states) == 0 {
		return results[LevelEmpty]
	}

	allOffline, anyOffline := true, false
	for _, s := range states {
		if s.Offline {
			anyOffline = true
		} else {
			allOffline = false
		}
	}
	if allOffline {
		return results[LevelOffline]
	}

	var shake, bending *float64
	if latest != nil {
		shake, bending = latest.Metrics.Shake, latest.Metrics.Bending
	}

	if atLeast(shake, th.High) || atLeast(bending, th.High) {
		return results[LevelAlert]
	}
	if atLeast(shake, th.Mid) || atLeast(bending, th.Mid) || anyOffline {
		return results[LevelCaution]
	}
	return results[LevelSafe]
}

func atLeast(v *float64, threshold float64) bool {
	return v != nil && *v >= threshold
}

// Engine binds thresholds to a clock so callers don't pass "now" around.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	clock      clockwork.Clock
	thresholds Thresholds
}

// NewEngine creates an engine; a nil clock means the real clock.
func NewEngine(clock clockwork.Clock, th Thresholds) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{clock: clock, thresholds: th.withDefaults()}
}

// Thresholds returns the effective thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Sensors classifies sensors against the engine's clock.
func (e *Engine) Sensors(sensors []*models.Sensor) []SensorState {
	return ClassifySensors(sensors, e.clock.Now(), e.thresholds.Offline)
}

// Evaluate classifies sensors and derives the level in one step.
func (e *Engine) Evaluate(sensors []*models.Sensor, latest *models.Measurement) ([]SensorState, Result) {
	states := e.Sensors(sensors)
	return states, Evaluate(states, latest, e.thresholds)
}

// AnyOffline reports whether at least one sensor is offline.
func AnyOffline(states []SensorState) bool {
	for _, s := range states {
		if s.Offline {
			return true
		}
	}
	return false
}
