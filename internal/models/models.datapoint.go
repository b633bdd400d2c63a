// FilePath: internal/models/models.datapoint.go
package models

import "time"

// Datapoint is a single telemetry reading. ProjectID is nil for readings
// that arrived while the sensor had no active project; such readings stay
// unassigned even if a project is attached later. Both ids are soft
// references: the row they point at may have been deleted.
type Datapoint struct {
	ID          int64     `json:"id" db:"id"`
	SensorID    int64     `json:"sensor_id" db:"sensor_id"`
	ProjectID   *int64    `json:"project_id,omitempty" db:"project_id"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	Angle       float64   `json:"angle" db:"angle"`
	Temperature float64   `json:"temperature" db:"temperature"`
	Battery     float64   `json:"battery" db:"battery"`
}

// Gravity derives a specific-gravity estimate from the raw tilt angle.
// Transforms 45 to 1.045. Existing consumers depend on this exact formula;
// do not recalibrate it here.
func (d *Datapoint) Gravity() float64 {
	return 1.0 + d.Angle/1000
}
