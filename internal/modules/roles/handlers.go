package roles

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/homescope/listings/internal/response"
)

// Handler handles role HTTP requests. Unlike the other entity groups,
// missing roles answer with a hard 404.
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new role handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "roles").Logger(),
	}
}

// Routes mounts the role endpoints on the given router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/addRole", h.HandleCreate)
	r.Get("/getRole/{id}", h.HandleGet)
	r.Put("/updateRole/{id}", h.HandleUpdate)
	r.Delete("/deleteRole/{id}", h.HandleDelete)
	r.Get("/allRoles", h.HandleList)
	r.Put("/removeRole/{id}", h.HandleUpdateStatus)
}

type roleRequest struct {
	RoleName   string  `json:"roleName"`
	CreatedBy  string  `json:"createdBy"`
	Status     *string `json:"status"`
	Permission string  `json:"permission"`
}

func (req *roleRequest) validate() string {
	switch {
	case req.RoleName == "":
		return "RoleName is required"
	case req.CreatedBy == "":
		return "CreatedBy is required"
	case req.Status == nil:
		return "Status is required"
	case !ValidStatus(*req.Status):
		return "Status must be active or inactive"
	case req.Permission == "":
		return "Permission is required"
	}
	return ""
}

// HandleCreate creates a new role
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	role, err := h.repo.Create(&Role{
		RoleName:   req.RoleName,
		CreatedBy:  req.CreatedBy,
		Status:     *req.Status,
		Permission: req.Permission,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error creating role")
		response.Internal(w, "Error creating role")
		return
	}

	response.SendSuccess(w, role, http.StatusCreated, "Role created successfully")
}

// HandleGet returns a role by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	role, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching role")
		response.Internal(w, "Error fetching role")
		return
	}
	if role == nil {
		response.NotFound(w, "Role not found")
		return
	}

	response.SendSuccess(w, role, http.StatusOK, "Role fetched successfully")
}

// HandleUpdate updates a role by ID
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	role, err := h.repo.Update(id, &Role{
		RoleName:   req.RoleName,
		CreatedBy:  req.CreatedBy,
		Status:     *req.Status,
		Permission: req.Permission,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating role")
		response.Internal(w, "Error updating role")
		return
	}
	if role == nil {
		response.NotFound(w, "Role not found")
		return
	}

	response.SendSuccess(w, role, http.StatusOK, "Role updated successfully")
}

// HandleDelete removes a role by ID
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	role, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error deleting role")
		response.Internal(w, "Error deleting role")
		return
	}
	if role == nil {
		response.NotFound(w, "Role not found")
		return
	}

	response.SendSuccess(w, []Role{}, http.StatusOK, "Role deleted successfully")
}

// HandleList returns all roles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching roles")
		response.Internal(w, "Error fetching roles")
		return
	}

	response.SendSuccess(w, roles, http.StatusOK, "Roles fetched successfully")
}

// HandleUpdateStatus sets a role's status
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Status == nil {
		response.BadRequest(w, "Status is required")
		return
	}
	if !ValidStatus(*req.Status) {
		response.BadRequest(w, "Status must be active or inactive")
		return
	}

	role, err := h.repo.UpdateStatus(id, *req.Status)
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating role status")
		response.Internal(w, "Error updating role status")
		return
	}
	if role == nil {
		response.NotFound(w, "Role not found")
		return
	}

	response.SendSuccess(w, role, http.StatusOK, "Role status updated successfully")
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid role id")
		return 0, false
	}
	return id, true
}
