package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/homescope/listings/internal/response"
)

// Handler handles user HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new user handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "users").Logger(),
	}
}

// Routes mounts the user endpoints on the given router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/addUser", h.HandleCreate)
	r.Get("/getUser/{id}", h.HandleGet)
	r.Put("/updateUser/{id}", h.HandleUpdate)
	r.Delete("/deleteUser/{id}", h.HandleDelete)
	r.Get("/allUsers", h.HandleList)
	r.Put("/removeUser/{id}", h.HandleToggleStatus)
}

type userRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PrimaryPhone   string `json:"primaryPhone"`
	SecondaryPhone string `json:"secondaryPhone"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	CreatedBy      string `json:"createdBy"`
	ProfilePhoto   string `json:"profilePhoto"`
	Reason         string `json:"reason"`
}

func (req *userRequest) validate(forCreate bool) string {
	switch {
	case req.Name == "":
		return "Name is required"
	case req.Email == "":
		return "Email is required"
	case req.Password == "":
		return "Password is required"
	case req.PrimaryPhone == "":
		return "Primary phone is required"
	case req.SecondaryPhone == "":
		return "Secondary phone is required"
	case req.Role == "":
		return "Role is required"
	case req.Status == "":
		return "Status is required"
	case !ValidStatus(req.Status):
		return "Status must be Active or Inactive"
	case forCreate && req.CreatedBy == "":
		return "CreatedBy is required"
	}
	return ""
}

// HandleCreate creates a new user
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(true); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to hash password")
		response.Internal(w, "Error creating user")
		return
	}

	user, err := h.repo.Create(&User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		PrimaryPhone:   req.PrimaryPhone,
		SecondaryPhone: req.SecondaryPhone,
		Role:           req.Role,
		Status:         req.Status,
		CreatedBy:      req.CreatedBy,
		ProfilePhoto:   req.ProfilePhoto,
		Reason:         req.Reason,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error creating user")
		response.Internal(w, "Error creating user")
		return
	}

	response.SendSuccess(w, user, http.StatusCreated, "User created successfully")
}

// HandleGet returns a user by ID. Missing users answer with the soft
// not-found envelope.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching user")
		response.Internal(w, "Error fetching user")
		return
	}
	if user == nil {
		response.SendSuccess(w, []User{}, http.StatusOK, "User not found")
		return
	}

	response.SendSuccess(w, user, http.StatusOK, "User retrieved successfully")
}

// HandleUpdate updates a user by ID
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(false); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to hash password")
		response.Internal(w, "Error updating user")
		return
	}

	user, err := h.repo.Update(id, &User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		PrimaryPhone:   req.PrimaryPhone,
		SecondaryPhone: req.SecondaryPhone,
		Role:           req.Role,
		Status:         req.Status,
		ProfilePhoto:   req.ProfilePhoto,
		Reason:         req.Reason,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating user")
		response.Internal(w, "Error updating user")
		return
	}
	if user == nil {
		response.SendSuccess(w, []User{}, http.StatusOK, "User not found for update")
		return
	}

	response.SendSuccess(w, user, http.StatusOK, "User updated successfully")
}

// HandleDelete hard-deletes a user by ID
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error deleting user")
		response.Internal(w, "Error deleting user")
		return
	}
	if user == nil {
		response.SendSuccess(w, []User{}, http.StatusOK, "User not found for deletion")
		return
	}

	response.SendSuccess(w, user, http.StatusOK, "User deleted successfully")
}

// HandleList returns a page of users with optional name/email filters
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	result, err := h.repo.List(ListFilter{
		Name:  r.URL.Query().Get("name"),
		Email: r.URL.Query().Get("email"),
	}, page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching users")
		response.Internal(w, "Error fetching users")
		return
	}
	if result.TotalUsers == 0 {
		response.SendSuccess(w, []User{}, http.StatusOK, "No users found")
		return
	}

	response.SendSuccess(w, result, http.StatusOK, "Users retrieved successfully")
}

// HandleToggleStatus flips a user between Active and Inactive
func (h *Handler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.ToggleStatus(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error toggling user status")
		response.Internal(w, "Error toggling user status")
		return
	}
	if user == nil {
		response.SendSuccess(w, []User{}, http.StatusOK, "User not found for status toggle")
		return
	}

	response.SendSuccess(w, user, http.StatusOK, "User status updated successfully")
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
