// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/itsatony/struccy"
	"github.com/tilthub/brewmonitor/api/middleware"
	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/export"
	"github.com/tilthub/brewmonitor/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	brewservice *brewservice.BrewService
}

type createSensorRequest struct {
	Name       string   `json:"name"`
	Secret     string   `json:"secret"`
	OwnerID    *int64   `json:"owner_id,omitempty"`
	MinBattery *float64 `json:"min_battery,omitempty"`
	MaxBattery *float64 `json:"max_battery,omitempty"`
}

// @Summary Create a new sensor
// @Description Register a sensor and its shared secret
// @Tags sensors
// @Accept json
// @Produce json
// @Param sensor body createSensorRequest true "Sensor details"
// @Success 201 {object} models.Sensor
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /sensors [post]
// @Security BasicAuth
func (h *SensorHandlers) CreateSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req createSensorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	caller := middleware.GetUser(r.Context())
	ownerID := caller.ID
	if req.OwnerID != nil {
		// Only admins register sensors on someone else's behalf.
		if *req.OwnerID != caller.ID && !caller.IsAdmin() {
			respondWithError(w, errors.NewAuthorizationError("cannot assign sensors to other users", nil).WithRequestID(requestID))
			return
		}
		ownerID = *req.OwnerID
	}
	owner, err := h.brewservice.GetUser(r.Context(), ownerID)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	sensor, err := h.brewservice.CreateSensor(r.Context(), req.Name, req.Secret, owner, req.MinBattery, req.MaxBattery)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[SensorHandler] Created sensor %d (%s)", sensor.ID, sensor.Name)
	respondWithJSON(w, http.StatusCreated, filterSensor(sensor, sensorRoles(caller, sensor)))
}

// @Summary List sensors
// @Tags sensors
// @Produce json
// @Success 200 {array} models.Sensor
// @Router /sensors [get]
func (h *SensorHandlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sensors, err := h.brewservice.ListSensors(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	caller := middleware.GetUser(r.Context())
	filtered := make([]*models.Sensor, 0, len(sensors))
	for _, sensor := range sensors {
		filtered = append(filtered, filterSensor(sensor, sensorRoles(caller, sensor)))
	}
	respondWithJSON(w, http.StatusOK, filtered)
}

// @Summary Get a sensor with its full history
// @Tags sensors
// @Produce json
// @Param id path int true "Sensor ID"
// @Success 200 {object} models.SensorData
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [get]
func (h *SensorHandlers) GetSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid sensor id", err).WithRequestID(requestID))
		return
	}

	detail, err := h.brewservice.SensorDetail(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	caller := middleware.GetUser(r.Context())
	detail.Sensor = *filterSensor(&detail.Sensor, sensorRoles(caller, &detail.Sensor))
	respondWithJSON(w, http.StatusOK, detail)
}

// @Summary Update sensor fields
// @Description Partial update; unknown field names are rejected
// @Tags sensors
// @Accept json
// @Produce json
// @Param id path int true "Sensor ID"
// @Success 200 {object} models.Sensor
// @Failure 400 {object} errors.APIError
// @Router /sensors/{id} [put]
// @Security BasicAuth
func (h *SensorHandlers) UpdateSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid sensor id", err).WithRequestID(requestID))
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	sensor, err := h.brewservice.GetSensor(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	caller := middleware.GetUser(r.Context())
	if !canManage(caller, sensor.OwnerID) {
		respondWithError(w, errors.NewAuthorizationError("not the sensor owner", nil).WithRequestID(requestID))
		return
	}

	fields, err := h.resolveSensorFields(r, payload)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	if err := h.brewservice.EditSensor(r.Context(), sensor, fields); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[SensorHandler] Updated sensor %d", sensor.ID)
	respondWithJSON(w, http.StatusOK, filterSensor(sensor, sensorRoles(caller, sensor)))
}

// @Summary Delete a sensor
// @Description Removes the sensor, its datapoints, and detaches it everywhere
// @Tags sensors
// @Param id path int true "Sensor ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [delete]
// @Security BasicAuth
func (h *SensorHandlers) DeleteSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid sensor id", err).WithRequestID(requestID))
		return
	}

	if err := h.brewservice.DeleteSensor(r.Context(), id); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[SensorHandler] Deleted sensor %d", id)
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Export sensor datapoints
// @Tags sensors
// @Produce json
// @Param id path int true "Sensor ID"
// @Param format path string true "csv or json"
// @Success 200
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id}/datapoints/{format} [get]
func (h *SensorHandlers) ExportDatapoints(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid sensor id", err).WithRequestID(requestID))
		return
	}
	format := mux.Vars(r)["format"]

	points, err := h.brewservice.SensorDatapoints(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	writeExport(w, fmt.Sprintf("sensor_%d_data.%s", id, format), format, points, requestID)
}

// resolveSensorFields maps the JSON payload onto the repository's edit
// contract. An owner_id key is resolved to the actual account here so the
// storage layer can stamp the display name without a second lookup.
func (h *SensorHandlers) resolveSensorFields(r *http.Request, payload map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(payload))
	for key, value := range payload {
		switch key {
		case "owner_id":
			raw, ok := value.(float64)
			if !ok {
				return nil, errors.NewValidationError("owner_id must be a number", nil)
			}
			owner, err := h.brewservice.GetUser(r.Context(), int64(raw))
			if err != nil {
				return nil, err
			}
			fields["owner"] = owner
		default:
			fields[key] = value
		}
	}
	return fields, nil
}

// Helper functions shared by the resource handlers.

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// canManage reports whether the caller may mutate a resource owned by
// ownerID. Admins manage everything; ownerless resources are admin-only.
func canManage(caller *middleware.UserContext, ownerID *int64) bool {
	if caller == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == caller.ID
}

// sensorRoles computes the access roles the caller holds towards a sensor.
// Owners see the shared secret, other users do not.
func sensorRoles(caller *middleware.UserContext, sensor *models.Sensor) []string {
	if caller == nil {
		return []string{"anonymous"}
	}
	roles := append([]string{}, caller.Roles...)
	if sensor.OwnerID != nil && *sensor.OwnerID == caller.ID {
		roles = append(roles, "owner")
	}
	return roles
}

// filterSensor strips fields the roles may not read.
func filterSensor(sensor *models.Sensor, roles []string) *models.Sensor {
	filteredMap, err := struccy.StructToMapFieldsWithReadXS(sensor, roles)
	if err != nil {
		nuts.L.Warnf("[SensorHandler] Failed to filter sensor %d: %v", sensor.ID, err)
		redacted := *sensor
		redacted.Secret = ""
		return &redacted
	}
	filtered := &models.Sensor{}
	if _, err := struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, roles); err != nil {
		nuts.L.Warnf("[SensorHandler] Failed to map filtered sensor %d: %v", sensor.ID, err)
		redacted := *sensor
		redacted.Secret = ""
		return &redacted
	}
	return filtered
}

func writeExport(w http.ResponseWriter, filename, format string, points []models.Datapoint, requestID string) {
	contentType, err := export.ContentType(format)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, format, points); err != nil {
		nuts.L.Errorf("[API] export failed: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

// respondWithAPIError passes typed service errors through with their status
// code and wraps anything else as internal.
func respondWithAPIError(w http.ResponseWriter, err error, requestID string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("internal error", err).WithRequestID(requestID))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
