// FilePath: internal/brewservice/brewservice.sensor.go
package brewservice

import (
	"context"

	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

func (s *BrewService) CreateSensor(ctx context.Context, name, secret string, owner *models.User, minBattery, maxBattery *float64) (*models.Sensor, error) {
	return s.sensors.Create(ctx, name, secret, owner, minBattery, maxBattery)
}

func (s *BrewService) GetSensor(ctx context.Context, id int64) (*models.Sensor, error) {
	return s.sensors.Get(ctx, id)
}

func (s *BrewService) ListSensors(ctx context.Context) ([]*models.Sensor, error) {
	return s.sensors.List(ctx)
}

func (s *BrewService) EditSensor(ctx context.Context, sensor *models.Sensor, fields map[string]any) error {
	return s.sensors.Edit(ctx, sensor, fields)
}

// DeleteSensor cascades through the cleanup coordinator: datapoints go,
// projects holding the sensor are detached, the sensor row goes last.
func (s *BrewService) DeleteSensor(ctx context.Context, id int64) error {
	return s.cleanup.DeleteSensor(ctx, id)
}

// SensorDetail assembles a sensor together with its full measurement history
// and the projects those measurements were recorded into.
func (s *BrewService) SensorDetail(ctx context.Context, id int64) (*models.SensorData, error) {
	sensor, err := s.sensors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	points, err := s.datapoints.ListBySensor(ctx, id)
	if err != nil {
		return nil, err
	}

	projects := make(map[int64]*models.Project)
	for _, p := range points {
		if p.ProjectID == nil {
			continue
		}
		if _, ok := projects[*p.ProjectID]; ok {
			continue
		}
		project, err := s.projects.Get(ctx, *p.ProjectID)
		if err != nil {
			if errors.IsNotFound(err) {
				// A deleted project leaves its id behind on old datapoints.
				continue
			}
			return nil, err
		}
		projects[*p.ProjectID] = project
	}

	return &models.SensorData{
		Sensor:     *sensor,
		Projects:   projects,
		Datapoints: points,
	}, nil
}

// SensorDatapoints returns the sensor's history, oldest first.
func (s *BrewService) SensorDatapoints(ctx context.Context, id int64) ([]models.Datapoint, error) {
	if _, err := s.sensors.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.datapoints.ListBySensor(ctx, id)
}
