package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/fittrack-be/internal/services"
)

// WorkoutHandler handles HTTP requests for workouts.
type WorkoutHandler struct {
	service services.WorkoutServiceProvider
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(service services.WorkoutServiceProvider) *WorkoutHandler {
	return &WorkoutHandler{service: service}
}

// List returns the workouts of the user named by the userId query parameter.
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	var userID interface{}
	if v := r.URL.Query().Get("userId"); v != "" {
		userID = v
	}

	workouts, err := h.service.ListWorkouts(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, err, "list workouts")
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

// Create handles the request to log a new workout.
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload services.WorkoutInput
	if !decodeBody(w, r, &payload) {
		return
	}

	workout, err := h.service.CreateWorkout(r.Context(), payload)
	if err != nil {
		respondWithError(w, r, err, "create workout")
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

// Update merges the body into an existing workout.
func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := workoutID(r)
	if err != nil {
		respondWithError(w, r, err, "update workout")
		return
	}

	var payload services.WorkoutInput
	if !decodeBody(w, r, &payload) {
		return
	}

	workout, err := h.service.UpdateWorkout(r.Context(), id, payload)
	if err != nil {
		respondWithError(w, r, err, "update workout")
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

// Delete handles the request to delete a workout.
func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := workoutID(r)
	if err != nil {
		respondWithError(w, r, err, "delete workout")
		return
	}

	if err := h.service.DeleteWorkout(r.Context(), id); err != nil {
		respondWithError(w, r, err, "delete workout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// workoutID parses the {id} URL parameter. An id that cannot exist is reported as not found.
func workoutID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: workout %s", services.ErrNotFound, raw)
	}
	return id, nil
}
