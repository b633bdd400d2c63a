// FilePath: internal/brewservice/brewservice.ingest.go
package brewservice

import (
	"context"
	"time"

	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

// TelemetryRecord is one reading as reported by a sensor. Pointer fields
// distinguish absent values from zero readings.
type TelemetryRecord struct {
	SensorID    *int64     `json:"sensor_id"`
	Secret      *string    `json:"secret"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Angle       *float64   `json:"angle"`
	Temperature *float64   `json:"temperature"`
	Battery     *float64   `json:"battery"`
}

// IngestTelemetry validates a reported reading, authenticates the sensor by
// its shared secret and persists the datapoint stamped with the project the
// sensor is attached to at this moment. Readings from unattached sensors are
// stored with no project and are never attached retroactively.
//
// A wrong secret answers not found rather than forbidden, so probing cannot
// distinguish a missing sensor from a bad credential.
func (s *BrewService) IngestTelemetry(ctx context.Context, record *TelemetryRecord) (*models.Datapoint, error) {
	if record == nil || record.SensorID == nil {
		return nil, errors.NewValidationError("sensor_id is required", nil)
	}
	if record.Secret == nil || *record.Secret == "" {
		return nil, errors.NewValidationError("secret is required", nil)
	}
	if record.Angle == nil || record.Temperature == nil || record.Battery == nil {
		return nil, errors.NewValidationError("angle, temperature and battery are required", nil)
	}

	sensor, err := s.sensors.Get(ctx, *record.SensorID)
	if err != nil {
		if errors.IsValidation(err) {
			return nil, err
		}
		return nil, errors.NewNotFoundError("sensor not found", nil)
	}
	if !sensor.VerifyIdentity(*record.Secret) {
		return nil, errors.NewNotFoundError("sensor not found", nil)
	}

	timestamp := time.Now().UTC()
	if record.Timestamp != nil {
		timestamp = record.Timestamp.UTC()
	}

	var projectID *int64
	project, err := s.projects.ByActiveSensor(ctx, sensor.ID)
	if err != nil {
		return nil, err
	}
	if project != nil {
		projectID = &project.ID
	}

	point := &models.Datapoint{
		SensorID:    sensor.ID,
		ProjectID:   projectID,
		Timestamp:   timestamp,
		Angle:       *record.Angle,
		Temperature: *record.Temperature,
		Battery:     *record.Battery,
	}
	// Single readings go through the batch path too; there is exactly one
	// write path into the datapoints table.
	if err := s.datapoints.InsertBatch(ctx, []*models.Datapoint{point}); err != nil {
		return nil, err
	}
	return point, nil
}

// InsertDatapoints persists pre-built readings in one batch, all or nothing.
// Callers are trusted to have stamped the project ids themselves; the seed
// tool goes through here.
func (s *BrewService) InsertDatapoints(ctx context.Context, points []*models.Datapoint) error {
	return s.datapoints.InsertBatch(ctx, points)
}
