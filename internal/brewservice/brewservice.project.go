// FilePath: internal/brewservice/brewservice.project.go
package brewservice

import (
	"context"
	"fmt"

	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

func (s *BrewService) CreateProject(ctx context.Context, name string, owner *models.User) (*models.Project, error) {
	return s.projects.Create(ctx, name, owner)
}

func (s *BrewService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *BrewService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projects.List(ctx)
}

func (s *BrewService) EditProject(ctx context.Context, project *models.Project, fields map[string]any) error {
	return s.projects.Edit(ctx, project, fields)
}

// DeleteProject cascades through the cleanup coordinator: the project's
// datapoints go with it, sensors stay.
func (s *BrewService) DeleteProject(ctx context.Context, id int64) error {
	return s.cleanup.DeleteProject(ctx, id)
}

// AttachSensor makes the sensor the project's active source. The sensor is
// first detached from every project that holds it, then attached here, both
// inside one transaction, so a sensor reports into at most one project at
// any time. A nil sensorID detaches this project only; attaching an already
// attached pair is a no-op that still succeeds.
func (s *BrewService) AttachSensor(ctx context.Context, project *models.Project, sensorID *int64) error {
	if project == nil {
		return errors.NewValidationError("project is required", nil)
	}
	if sensorID != nil {
		if _, err := s.sensors.Get(ctx, *sensorID); err != nil {
			return err
		}
	}

	tx, err := s.projects.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if sensorID != nil {
		if err := s.projects.DetachSensor(ctx, *sensorID, tx); err != nil {
			return err
		}
	}
	if err := s.projects.SetActiveSensor(ctx, project.ID, sensorID, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	project.ActiveSensor = sensorID
	return nil
}

// ProjectDetail assembles a project with its recorded datapoints and the
// sensors that produced them.
func (s *BrewService) ProjectDetail(ctx context.Context, id int64) (*models.ProjectData, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	points, err := s.datapoints.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	sensors := make(map[int64]*models.Sensor)
	for _, p := range points {
		if _, ok := sensors[p.SensorID]; ok {
			continue
		}
		sensor, err := s.sensors.Get(ctx, p.SensorID)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		sensors[p.SensorID] = sensor
	}

	return &models.ProjectData{
		Project:    *project,
		Sensors:    sensors,
		Datapoints: points,
	}, nil
}

// ProjectDatapoints returns the project's recorded history, oldest first.
func (s *BrewService) ProjectDatapoints(ctx context.Context, id int64) ([]models.Datapoint, error) {
	if _, err := s.projects.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.datapoints.ListByProject(ctx, id)
}

// DeleteDatapoint removes a single reading.
func (s *BrewService) DeleteDatapoint(ctx context.Context, id int64) error {
	return s.datapoints.Delete(ctx, id)
}

// EditDatapoint always fails: recorded measurements are immutable.
func (s *BrewService) EditDatapoint(ctx context.Context, id int64, fields map[string]any) error {
	point, err := s.datapoints.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.datapoints.Edit(ctx, point, fields)
}
