package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/homescope/listings/internal/modules/users"
	"github.com/homescope/listings/internal/response"
)

// authTokenCookie is the JWT cookie name. Unlike the personalization
// cookies it is written plaintext, not through the encrypting manager.
const authTokenCookie = "authToken"

type contextKey struct{ name string }

var userIDKey = &contextKey{"userID"}

// Handler handles login and profile requests
type Handler struct {
	users  *users.Repository
	secret []byte
	log    zerolog.Logger
}

// NewHandler creates a new auth handler
func NewHandler(usersRepo *users.Repository, secret []byte, log zerolog.Logger) *Handler {
	return &Handler{
		users:  usersRepo,
		secret: secret,
		log:    log.With().Str("handler", "auth").Logger(),
	}
}

// LoginRoutes mounts the login endpoint
func (h *Handler) LoginRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// ProfileRoutes mounts the profile endpoint behind token authentication
func (h *Handler) ProfileRoutes(r chi.Router) {
	r.With(h.Authenticate).Get("/profile", h.HandleProfile)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials, issues a token and sets the authToken cookie
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("Error logging in user")
		response.Internal(w, "Error logging in user")
		return
	}
	if user == nil {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(w, "Invalid email or password")
		return
	}

	token, err := GenerateToken(user.ID, h.secret)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to sign token")
		response.Internal(w, "Error logging in user")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	})

	h.log.Info().Int64("user_id", user.ID).Msg("User logged in")
	response.SendSuccess(w, map[string]string{"token": token}, http.StatusOK, "Login successful")
}

// Authenticate verifies the authToken cookie and stores the user id on
// the request context
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authTokenCookie)
		if err != nil || cookie.Value == "" {
			response.Unauthorized(w, "No token provided")
			return
		}

		userID, err := UserIDFromToken(cookie.Value, h.secret)
		if err != nil {
			h.log.Warn().Err(err).Msg("Invalid token")
			response.Unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// HandleProfile returns the authenticated user's record
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(userIDKey).(int64)
	if !ok {
		response.Unauthorized(w, "No token provided")
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching user profile")
		response.Internal(w, "Error fetching user profile")
		return
	}
	if user == nil {
		response.NotFound(w, "User not found")
		return
	}

	response.SendSuccess(w, user, http.StatusOK, "Profile details retrieved successfully")
}
