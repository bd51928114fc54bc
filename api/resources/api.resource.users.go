// FilePath: api/resources/api.resource.users.go
package resources

import (
	"net/http"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/service"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// UserHandlers encapsulates account management
type UserHandlers struct {
	service *service.Service
}

type CreateUserResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type UserSitesRequest struct {
	SiteIDs *[]string `json:"siteIds"`
}

type UserSitesResponse struct {
	OK      bool     `json:"ok"`
	SiteIDs []string `json:"siteIds"`
}

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
// @Security BearerAuth
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "failed to list users", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// @Summary Create a user
// @Description Role defaults to CLIENT
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.NewUser true "Account"
// @Success 201 {object} CreateUserResponse
// @Failure 400 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /users [post]
// @Security BearerAuth
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.NewUser
	if apiErr := decodeBody(r, &in); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	id, err := h.service.CreateUser(r.Context(), &in)
	if err != nil {
		respondWithServiceError(w, err, "failed to create user", requestID)
		return
	}
	respondWithJSON(w, http.StatusCreated, CreateUserResponse{OK: true, ID: id})
}

// @Summary Delete a user
// @Description Admin accounts cannot be deleted
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} OKResponse
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id} [delete]
// @Security BearerAuth
func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		respondWithServiceError(w, err, "failed to delete user", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, OKResponse{OK: true})
}

// @Summary Replace the sites of a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param sites body UserSitesRequest true "Site ids"
// @Success 200 {object} UserSitesResponse
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id}/sites [put]
// @Security BearerAuth
func (h *UserHandlers) UpdateUserSites(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	var req UserSitesRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	if req.SiteIDs == nil {
		respondWithError(w, errors.NewValidationError("siteIds must be an array", nil).WithRequestID(requestID))
		return
	}

	ids, err := h.service.UpdateUserSites(r.Context(), id, *req.SiteIDs)
	if err != nil {
		respondWithServiceError(w, err, "failed to update user sites", requestID)
		return
	}
	respondWithJSON(w, http.StatusOK, UserSitesResponse{OK: true, SiteIDs: ids})
}
