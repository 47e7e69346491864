package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/fittrack-be/internal/services"
)

// UserHandler handles HTTP requests for accounts and profiles.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		respondWithError(w, r, err, "register user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		respondWithError(w, r, err, "authenticate user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile merges the body into the user's profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload services.ProfileUpdate
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), payload)
	if err != nil {
		respondWithError(w, r, err, "update profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Get returns a single user without the password hash.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondWithError(w, r, fmt.Errorf("%w: user %s", services.ErrUserNotFound, raw), "get user")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err, "get user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
