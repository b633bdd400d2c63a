// FilePath: api/resources/api.resource.projects.go
package resources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/tilthub/brewmonitor/api/middleware"
	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// ProjectHandlers encapsulates the project-related HTTP handlers
type ProjectHandlers struct {
	brewservice *brewservice.BrewService
}

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type createProjectRequest struct {
	Name    string `json:"name"`
	OwnerID *int64 `json:"owner_id,omitempty"`
}

// attachSensorForm is posted form-encoded, matching the device provisioning
// tools. "null" or an empty sensor_id detaches.
type attachSensorForm struct {
	SensorID string `schema:"sensor_id"`
}

// @Summary Create a new project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "Project details"
// @Success 201 {object} models.Project
// @Failure 400 {object} errors.APIError
// @Router /projects [post]
// @Security BasicAuth
func (h *ProjectHandlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	caller := middleware.GetUser(r.Context())
	ownerID := caller.ID
	if req.OwnerID != nil {
		if *req.OwnerID != caller.ID && !caller.IsAdmin() {
			respondWithError(w, errors.NewAuthorizationError("cannot assign projects to other users", nil).WithRequestID(requestID))
			return
		}
		ownerID = *req.OwnerID
	}
	owner, err := h.brewservice.GetUser(r.Context(), ownerID)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	project, err := h.brewservice.CreateProject(r.Context(), req.Name, owner)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[ProjectHandler] Created project %d (%s)", project.ID, project.Name)
	respondWithJSON(w, http.StatusCreated, project)
}

// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /projects [get]
func (h *ProjectHandlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	projects, err := h.brewservice.ListProjects(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, projects)
}

// @Summary Get a project with its recorded history
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.ProjectData
// @Failure 404 {object} errors.APIError
// @Router /projects/{id} [get]
func (h *ProjectHandlers) GetProject(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid project id", err).WithRequestID(requestID))
		return
	}

	detail, err := h.brewservice.ProjectDetail(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// @Summary Update project fields
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 400 {object} errors.APIError
// @Router /projects/{id} [put]
// @Security BasicAuth
func (h *ProjectHandlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid project id", err).WithRequestID(requestID))
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	project, err := h.brewservice.GetProject(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	caller := middleware.GetUser(r.Context())
	if !canManage(caller, project.OwnerID) {
		respondWithError(w, errors.NewAuthorizationError("not the project owner", nil).WithRequestID(requestID))
		return
	}

	fields := make(map[string]any, len(payload))
	for key, value := range payload {
		if key == "owner_id" {
			raw, ok := value.(float64)
			if !ok {
				respondWithError(w, errors.NewValidationError("owner_id must be a number", nil).WithRequestID(requestID))
				return
			}
			owner, err := h.brewservice.GetUser(r.Context(), int64(raw))
			if err != nil {
				respondWithAPIError(w, err, requestID)
				return
			}
			fields["owner"] = owner
			continue
		}
		fields[key] = value
	}

	if err := h.brewservice.EditProject(r.Context(), project, fields); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[ProjectHandler] Updated project %d", project.ID)
	respondWithJSON(w, http.StatusOK, project)
}

// @Summary Delete a project
// @Description Removes the project and its datapoints; sensors survive
// @Tags projects
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /projects/{id} [delete]
// @Security BasicAuth
func (h *ProjectHandlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid project id", err).WithRequestID(requestID))
		return
	}

	if err := h.brewservice.DeleteProject(r.Context(), id); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[ProjectHandler] Deleted project %d", id)
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Attach or detach the project's active sensor
// @Description A sensor can feed one project at most; attaching moves it
// @Tags projects
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Project ID"
// @Param sensor_id formData string true "Sensor ID, or null to detach"
// @Success 200 {object} models.Project
// @Failure 400 {object} errors.APIError
// @Router /projects/{id}/sensor [post]
// @Security BasicAuth
func (h *ProjectHandlers) AttachSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid project id", err).WithRequestID(requestID))
		return
	}

	if err := r.ParseForm(); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form body", err).WithRequestID(requestID))
		return
	}
	var form attachSensorForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form body", err).WithRequestID(requestID))
		return
	}

	var sensorID *int64
	if form.SensorID != "" && form.SensorID != "null" {
		parsed, err := strconv.ParseInt(form.SensorID, 10, 64)
		if err != nil {
			respondWithError(w, errors.NewValidationError("invalid sensor_id", err).WithRequestID(requestID))
			return
		}
		sensorID = &parsed
	}

	project, err := h.brewservice.GetProject(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	caller := middleware.GetUser(r.Context())
	if !canManage(caller, project.OwnerID) {
		respondWithError(w, errors.NewAuthorizationError("not the project owner", nil).WithRequestID(requestID))
		return
	}

	if err := h.brewservice.AttachSensor(r.Context(), project, sensorID); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	if sensorID != nil {
		nuts.L.Infof("[ProjectHandler] Attached sensor %d to project %d", *sensorID, id)
	} else {
		nuts.L.Infof("[ProjectHandler] Detached sensor from project %d", id)
	}
	respondWithJSON(w, http.StatusOK, project)
}

// @Summary Export project datapoints
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Param format path string true "csv or json"
// @Success 200
// @Failure 404 {object} errors.APIError
// @Router /projects/{id}/datapoints/{format} [get]
func (h *ProjectHandlers) ExportDatapoints(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid project id", err).WithRequestID(requestID))
		return
	}
	format := mux.Vars(r)["format"]

	points, err := h.brewservice.ProjectDatapoints(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	writeExport(w, fmt.Sprintf("project_%d_data.%s", id, format), format, points, requestID)
}

// @Summary Update a datapoint
// @Description Always answers 405; recorded measurements are immutable
// @Tags datapoints
// @Param id path int true "Datapoint ID"
// @Failure 405 {object} errors.APIError
// @Router /datapoints/{id} [put]
// @Security BasicAuth
func (h *ProjectHandlers) UpdateDatapoint(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid datapoint id", err).WithRequestID(requestID))
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	err = h.brewservice.EditDatapoint(r.Context(), id, payload)
	respondWithAPIError(w, err, requestID)
}

// @Summary Delete a single datapoint
// @Tags datapoints
// @Param id path int true "Datapoint ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /datapoints/{id} [delete]
// @Security BasicAuth
func (h *ProjectHandlers) DeleteDatapoint(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid datapoint id", err).WithRequestID(requestID))
		return
	}

	if err := h.brewservice.DeleteDatapoint(r.Context(), id); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
