// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/tilthub/brewmonitor/internal/brewservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Sensors     *SensorHandlers
	Projects    *ProjectHandlers
	Users       *UserHandlers
	Telemetry   *TelemetryHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *brewservice.BrewService) *Resources {
	return &Resources{
		Sensors:   &SensorHandlers{brewservice: svc},
		Projects:  &ProjectHandlers{brewservice: svc},
		Users:     &UserHandlers{brewservice: svc},
		Telemetry: &TelemetryHandlers{brewservice: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}
