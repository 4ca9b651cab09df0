package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicepulse/internal/config"
	"devicepulse/internal/httputil"
	"devicepulse/internal/model"
	"devicepulse/internal/service"
	"devicepulse/internal/transport/http/middleware"
)

// UserHandler groups user HTTP endpoints and their dependencies.
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
	config      *config.Config
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		config:      cfg,
	}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		log.Printf("[ERROR] List users: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, users)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[ERROR] Create user: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusCreated, user)
}

// GetByID handles GET /users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}

// GetByEmail handles GET /users/email/{email}
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}

// Update handles PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		log.Printf("[ERROR] Update user: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}. Delete is idempotent: an unknown id
// still reports success.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Printf("[ERROR] Delete user: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	accessToken, err := h.authService.GenerateAccessToken(user.ID)
	if err != nil {
		log.Printf("[ERROR] Login: failed to generate token for user %s: %v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to generate access token")
		return
	}

	httputil.WriteData(w, http.StatusOK, model.LoginResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   h.config.AccessTokenMaxAge,
	})
}

// Me handles GET /users/me for the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}
