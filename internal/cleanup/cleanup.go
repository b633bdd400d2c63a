// FilePath: internal/cleanup/cleanup.go
package cleanup

import (
	"context"
	"fmt"

	"github.com/tilthub/brewmonitor/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// CleanupService coordinates cascading deletion across the entity tables.
// Each cascade runs inside a single transaction; events fire only after
// the transaction has committed.
type CleanupService struct {
	users      repository.UserRepository
	sensors    repository.SensorRepository
	projects   repository.ProjectRepository
	datapoints repository.DatapointRepository
	events     *nuts.EventEmitter
}

// New creates a new CleanupService
func New(
	users repository.UserRepository,
	sensors repository.SensorRepository,
	projects repository.ProjectRepository,
	datapoints repository.DatapointRepository,
) *CleanupService {
	return &CleanupService{
		users:      users,
		sensors:    sensors,
		projects:   projects,
		datapoints: datapoints,
		events:     nuts.NewEventEmitter(),
	}
}

// DeleteSensor removes a sensor, every datapoint it ever recorded, and its
// active slot on whichever project holds it. Projects themselves survive.
func (s *CleanupService) DeleteSensor(ctx context.Context, sensorID int64) error {
	tx, err := s.sensors.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	if err := s.datapoints.DeleteBySensor(ctx, sensorID, tx); err != nil {
		return fmt.Errorf("failed to delete datapoints: %w", err)
	}

	if err := s.projects.DetachSensor(ctx, sensorID, tx); err != nil {
		return fmt.Errorf("failed to detach sensor: %w", err)
	}

	if err := s.sensors.DeleteTx(ctx, sensorID, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.events.Emit("sensor.deleted", sensorID)
	return nil
}

// DeleteProject removes a project and the datapoints recorded into it.
// Sensors that reported into the project are untouched; datapoints a sensor
// recorded while unattached, or into other projects, are untouched too.
func (s *CleanupService) DeleteProject(ctx context.Context, projectID int64) error {
	tx, err := s.projects.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.datapoints.DeleteByProject(ctx, projectID, tx); err != nil {
		return fmt.Errorf("failed to delete datapoints: %w", err)
	}

	if err := s.projects.DeleteTx(ctx, projectID, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.events.Emit("project.deleted", projectID)
	return nil
}

// DeleteUser removes a user account. Sensors and projects the user owned
// stay in place with their owner reference cleared, so listings degrade to
// a placeholder label instead of breaking.
func (s *CleanupService) DeleteUser(ctx context.Context, userID int64) error {
	tx, err := s.users.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.sensors.ClearOwner(ctx, userID, tx); err != nil {
		return fmt.Errorf("failed to clear sensor ownership: %w", err)
	}

	if err := s.projects.ClearOwner(ctx, userID, tx); err != nil {
		return fmt.Errorf("failed to clear project ownership: %w", err)
	}

	if err := s.users.DeleteTx(ctx, userID, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.events.Emit("user.deleted", userID)
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id int64)) {
	s.events.On(event, "cleanup_handler", func(id int64) {
		handler(id)
	})
}
