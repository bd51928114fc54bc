// FilePath: internal/models/models.sensor_data.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airx/beds/server/hub/internal/normalize"
)

const (
	MetricShake   = "shake"
	MetricBending = "bending"
)

// Metrics is the payload of one reading. Shake and Bending are nil when the
// device did not send a number; Raw is passed through untouched.
type Metrics struct {
	Shake   *float64        `json:"shake"`
	Bending *float64        `json:"bending"`
	Raw     json.RawMessage `json:"raw"`
}

// NewMetrics keeps shake/bending only when they are JSON numbers.
func NewMetrics(shake, bending any, raw json.RawMessage) Metrics {
	m := Metrics{}
	if f, ok := normalize.StrictNumber(shake); ok {
		m.Shake = &f
	}
	if f, ok := normalize.StrictNumber(bending); ok {
		m.Bending = &f
	}
	if len(raw) > 0 && string(raw) != "null" {
		m.Raw = append(json.RawMessage(nil), raw...)
	}
	return m
}

// MarshalJSON always emits raw, as null when absent.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type alias Metrics
	out := alias(m)
	if len(out.Raw) == 0 {
		out.Raw = json.RawMessage("null")
	}
	return json.Marshal(out)
}

// Value implements the driver.Valuer interface
func (m Metrics) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *Metrics) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*m = Metrics{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metrics column type %T", value)
	}
	var decoded Metrics
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if string(decoded.Raw) == "null" {
		decoded.Raw = nil
	}
	*m = decoded
	return nil
}

// Measurement is one timestamped reading from a sensor. Append-only.
type Measurement struct {
	ID        string    `json:"id" db:"id"`
	SensorID  string    `json:"sensorId" db:"sensor_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Metrics   Metrics   `json:"metrics" db:"metrics"`
}
