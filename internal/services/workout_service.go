package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/fittrack-be/internal/database"
	"github.com/isdelr/fittrack-be/internal/idgen"
	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/isdelr/fittrack-be/internal/validation"
)

// WorkoutServiceProvider defines the interface for workout services.
type WorkoutServiceProvider interface {
	ListWorkouts(ctx context.Context, userID interface{}) ([]models.Workout, error)
	CreateWorkout(ctx context.Context, input WorkoutInput) (models.Workout, error)
	UpdateWorkout(ctx context.Context, id int64, input WorkoutInput) (models.Workout, error)
	DeleteWorkout(ctx context.Context, id int64) error
}

// WorkoutInput is the decoded body of a create or update request.
// Nil fields were absent from the body. Numbers stay raw so that
// non-numeric input can be coerced instead of rejected.
type WorkoutInput struct {
	UserID    interface{} `json:"userId"`
	Type      *string     `json:"type"`
	Duration  interface{} `json:"duration"`
	Calories  interface{} `json:"calories"`
	Date      *string     `json:"date"`
	Notes     *string     `json:"notes"`
	Intensity *string     `json:"intensity"`
}

// WorkoutService provides business logic for workout management.
type WorkoutService struct {
	store  *database.Store
	ids    idgen.Generator
	events EventServiceProvider
	now    func() time.Time
}

// NewWorkoutService creates a new WorkoutService.
func NewWorkoutService(store *database.Store, ids idgen.Generator, events EventServiceProvider) *WorkoutService {
	return &WorkoutService{
		store:  store,
		ids:    ids,
		events: events,
		now:    time.Now,
	}
}

// ListWorkouts returns the user's workouts, most recent date first.
// Workouts sharing a date keep their insertion order.
func (s *WorkoutService) ListWorkouts(ctx context.Context, userID interface{}) ([]models.Workout, error) {
	id, ok := validation.ParseID(userID)
	if !ok {
		return nil, fmt.Errorf("%w: userId", ErrMissingField)
	}

	workouts := []models.Workout{}
	err := s.store.View(func(doc *models.Document) error {
		for _, w := range doc.Workouts {
			if w.UserID == id {
				workouts = append(workouts, w)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}

// CreateWorkout validates and stores a new workout for an existing user.
func (s *WorkoutService) CreateWorkout(ctx context.Context, input WorkoutInput) (models.Workout, error) {
	userID, ok := validation.ParseID(input.UserID)
	var rawUserID, typ string
	if ok {
		rawUserID = strconv.FormatInt(userID, 10)
	}
	if input.Type != nil {
		typ = *input.Type
	}
	if missing := validation.Missing("userId", rawUserID, "type", typ); len(missing) > 0 {
		return models.Workout{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	workout, valueErr := s.buildWorkout(userID, input)

	err := s.store.Update(func(doc *models.Document) error {
		if doc.FindUser(userID) < 0 {
			return ErrUserNotFound
		}
		if valueErr != nil {
			return valueErr
		}
		workout.ID = s.ids.NextID()
		doc.Workouts = append(doc.Workouts, workout)
		return nil
	})
	if err != nil {
		return models.Workout{}, err
	}

	s.events.Publish(ctx, models.EventWorkoutCreated, workout.UserID, workout)
	return workout, nil
}

// UpdateWorkout merges the provided fields over the stored workout.
// The id and creation timestamp never change; merged values are validated
// with the same rules as creation.
func (s *WorkoutService) UpdateWorkout(ctx context.Context, id int64, input WorkoutInput) (models.Workout, error) {
	var updated models.Workout
	err := s.store.Update(func(doc *models.Document) error {
		i := doc.FindWorkout(id)
		if i < 0 {
			return fmt.Errorf("%w: workout %d", ErrNotFound, id)
		}

		w := doc.Workouts[i]
		if input.UserID != nil {
			userID, ok := validation.ParseID(input.UserID)
			if !ok {
				return fmt.Errorf("%w: userId", ErrInvalidValue)
			}
			if userID != w.UserID && doc.FindUser(userID) < 0 {
				return ErrUserNotFound
			}
			w.UserID = userID
		}
		if input.Type != nil {
			t := strings.TrimSpace(*input.Type)
			if t == "" {
				return fmt.Errorf("%w: type must not be empty", ErrInvalidValue)
			}
			w.Type = t
		}
		if input.Duration != nil {
			v, err := nonNegative("duration", input.Duration)
			if err != nil {
				return err
			}
			w.Duration = v
		}
		if input.Calories != nil {
			v, err := nonNegative("calories", input.Calories)
			if err != nil {
				return err
			}
			w.Calories = v
		}
		if input.Date != nil {
			d, ok := validation.ParseDate(*input.Date)
			if !ok {
				return fmt.Errorf("%w: date must be an ISO-8601 timestamp", ErrInvalidValue)
			}
			w.Date = d
		}
		if input.Notes != nil {
			w.Notes = strings.TrimSpace(*input.Notes)
		}
		if input.Intensity != nil {
			w.Intensity = strings.TrimSpace(*input.Intensity)
		}

		w.ID = id
		doc.Workouts[i] = w
		updated = w
		return nil
	})
	if err != nil {
		return models.Workout{}, err
	}

	s.events.Publish(ctx, models.EventWorkoutUpdated, updated.UserID, updated)
	return updated, nil
}

// DeleteWorkout removes a workout.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, id int64) error {
	var removed models.Workout
	err := s.store.Update(func(doc *models.Document) error {
		i := doc.FindWorkout(id)
		if i < 0 {
			return fmt.Errorf("%w: workout %d", ErrNotFound, id)
		}
		removed = doc.Workouts[i]
		doc.Workouts = append(doc.Workouts[:i], doc.Workouts[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, models.EventWorkoutDeleted, removed.UserID, map[string]int64{"id": id})
	return nil
}

// buildWorkout applies defaults and coercions to a create request.
func (s *WorkoutService) buildWorkout(userID int64, input WorkoutInput) (models.Workout, error) {
	duration, err := nonNegative("duration", input.Duration)
	if err != nil {
		return models.Workout{}, err
	}
	calories, err := nonNegative("calories", input.Calories)
	if err != nil {
		return models.Workout{}, err
	}

	now := s.now().UTC()
	date := now
	if input.Date != nil && strings.TrimSpace(*input.Date) != "" {
		d, ok := validation.ParseDate(*input.Date)
		if !ok {
			return models.Workout{}, fmt.Errorf("%w: date must be an ISO-8601 timestamp", ErrInvalidValue)
		}
		date = d
	}

	workout := models.Workout{
		UserID:    userID,
		Type:      strings.TrimSpace(*input.Type),
		Duration:  duration,
		Calories:  calories,
		Date:      date,
		Intensity: models.DefaultIntensity,
		Timestamp: now,
	}
	if input.Notes != nil {
		workout.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.Intensity != nil && strings.TrimSpace(*input.Intensity) != "" {
		workout.Intensity = strings.TrimSpace(*input.Intensity)
	}
	return workout, nil
}

func nonNegative(field string, raw interface{}) (float64, error) {
	v, _ := validation.ToNumber(raw)
	if !validation.IsNonNegative(v) {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, field)
	}
	return v, nil
}
