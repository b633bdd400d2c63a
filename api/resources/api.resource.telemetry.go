// FilePath: api/resources/api.resource.telemetry.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// TelemetryHandlers accepts readings reported by sensor devices.
type TelemetryHandlers struct {
	brewservice *brewservice.BrewService
}

// @Summary Report a sensor reading
// @Description Devices authenticate with their shared secret, not user
// credentials. The reading is stamped with the project the sensor feeds at
// this moment; the resolved project id is echoed in the Project-Id header.
// @Tags telemetry
// @Accept json
// @Produce json
// @Param reading body brewservice.TelemetryRecord true "Reported reading"
// @Success 201 {object} models.Datapoint
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /telemetry [post]
func (h *TelemetryHandlers) ReportReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var record brewservice.TelemetryRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	point, err := h.brewservice.IngestTelemetry(r.Context(), &record)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	projectID := "null"
	if point.ProjectID != nil {
		projectID = strconv.FormatInt(*point.ProjectID, 10)
	}
	w.Header().Set("Project-Id", projectID)

	nuts.L.Infof("[TelemetryHandler] Sensor %d reported (project %s)", point.SensorID, projectID)
	respondWithJSON(w, http.StatusCreated, point)
}
