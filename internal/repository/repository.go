// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	database.Repository
	Create(ctx context.Context, username, password string, isAdmin bool) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Verify(ctx context.Context, username, password string) (*models.User, error)
	DeleteTx(ctx context.Context, id int64, tx database.Transaction) error
}

// SensorRepository defines the interface for sensor operations. Get and List
// recompute the aggregate fields (last_active, last_battery, linked_project)
// from datapoint rows on every call.
type SensorRepository interface {
	database.Repository
	Create(ctx context.Context, name, secret string, owner *models.User, minBattery, maxBattery *float64) (*models.Sensor, error)
	Get(ctx context.Context, id int64) (*models.Sensor, error)
	List(ctx context.Context) ([]*models.Sensor, error)
	Edit(ctx context.Context, sensor *models.Sensor, fields map[string]any) error
	DeleteTx(ctx context.Context, id int64, tx database.Transaction) error
	ClearOwner(ctx context.Context, ownerID int64, tx database.Transaction) error
}

// ProjectRepository defines the interface for project operations
type ProjectRepository interface {
	database.Repository
	Create(ctx context.Context, name string, owner *models.User) (*models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	// ByActiveSensor returns nil without error when no project holds the sensor.
	ByActiveSensor(ctx context.Context, sensorID int64) (*models.Project, error)
	Edit(ctx context.Context, project *models.Project, fields map[string]any) error
	DetachSensor(ctx context.Context, sensorID int64, tx database.Transaction) error
	SetActiveSensor(ctx context.Context, projectID int64, sensorID *int64, tx database.Transaction) error
	DeleteTx(ctx context.Context, id int64, tx database.Transaction) error
	ClearOwner(ctx context.Context, ownerID int64, tx database.Transaction) error
}

// DatapointRepository defines the interface for telemetry rows. Inserts go
// through InsertBatch only, one transaction per batch; individual edits are
// not supported for this entity type.
type DatapointRepository interface {
	database.Repository
	InsertBatch(ctx context.Context, points []*models.Datapoint) error
	Get(ctx context.Context, id int64) (*models.Datapoint, error)
	ListBySensor(ctx context.Context, sensorID int64) ([]models.Datapoint, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Datapoint, error)
	Edit(ctx context.Context, point *models.Datapoint, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	DeleteBySensor(ctx context.Context, sensorID int64, tx database.Transaction) error
	DeleteByProject(ctx context.Context, projectID int64, tx database.Transaction) error
}
