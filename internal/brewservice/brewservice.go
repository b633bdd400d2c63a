// FilePath: internal/brewservice/brewservice.go

// Package brewservice implements the operations behind the HTTP surface:
// entity CRUD, the sensor/project association rules, account verification
// and telemetry ingestion. Repositories are injected explicitly; the service
// never reaches for an ambient connection.
package brewservice

import (
	"github.com/tilthub/brewmonitor/internal/cleanup"
	"github.com/tilthub/brewmonitor/internal/repository"
)

type BrewService struct {
	users      repository.UserRepository
	sensors    repository.SensorRepository
	projects   repository.ProjectRepository
	datapoints repository.DatapointRepository
	cleanup    *cleanup.CleanupService
}

func New(
	users repository.UserRepository,
	sensors repository.SensorRepository,
	projects repository.ProjectRepository,
	datapoints repository.DatapointRepository,
	cleanupSvc *cleanup.CleanupService,
) *BrewService {
	return &BrewService{
		users:      users,
		sensors:    sensors,
		projects:   projects,
		datapoints: datapoints,
		cleanup:    cleanupSvc,
	}
}

// Cleanup exposes the cascade coordinator so callers can subscribe to
// deletion events.
func (s *BrewService) Cleanup() *cleanup.CleanupService {
	return s.cleanup
}
