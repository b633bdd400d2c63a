// FilePath: api/resources/api.resource.users.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// UserHandlers encapsulates the account-related HTTP handlers
type UserHandlers struct {
	brewservice *brewservice.BrewService
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// @Summary Create a user account
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} errors.APIError
// @Router /users [post]
// @Security BasicAuth
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	user, err := h.brewservice.CreateUser(r.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[UserHandler] Created user %d (%s)", user.ID, user.Username)
	respondWithJSON(w, http.StatusCreated, user)
}

// @Summary List user accounts
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
// @Security BasicAuth
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	users, err := h.brewservice.ListUsers(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// @Summary Get a user account
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} errors.APIError
// @Router /users/{id} [get]
// @Security BasicAuth
func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid user id", err).WithRequestID(requestID))
		return
	}

	user, err := h.brewservice.GetUser(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// @Summary Delete a user account
// @Description Equipment the user owned survives with ownership cleared
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /users/{id} [delete]
// @Security BasicAuth
func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := parseID(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid user id", err).WithRequestID(requestID))
		return
	}

	if err := h.brewservice.DeleteUser(r.Context(), id); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[UserHandler] Deleted user %d", id)
	w.WriteHeader(http.StatusNoContent)
}
