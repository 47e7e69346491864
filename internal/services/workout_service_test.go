package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createWorkout(t *testing.T, userID int64, typ, date string) models.Workout {
	t.Helper()
	w, err := e.workouts.CreateWorkout(context.Background(), WorkoutInput{
		UserID:   float64(userID),
		Type:     strPtr(typ),
		Duration: float64(30),
		Calories: float64(200),
		Date:     strPtr(date),
	})
	require.NoError(t, err)
	return w
}

func TestCreateWorkout_Defaults(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	w, err := env.workouts.CreateWorkout(context.Background(), WorkoutInput{
		UserID: float64(u.ID),
		Type:   strPtr(" Running "),
	})
	require.NoError(t, err)

	assert.Positive(t, w.ID)
	assert.Equal(t, u.ID, w.UserID)
	assert.Equal(t, "Running", w.Type)
	assert.Zero(t, w.Duration)
	assert.Zero(t, w.Calories)
	assert.Equal(t, models.DefaultIntensity, w.Intensity)
	assert.Empty(t, w.Notes)
	assert.WithinDuration(t, time.Now(), w.Date, time.Minute)
	assert.WithinDuration(t, time.Now(), w.Timestamp, time.Minute)

	doc := env.document(t)
	require.Len(t, doc.Workouts, 1)
	assert.Equal(t, w.ID, doc.Workouts[0].ID)
	assert.Contains(t, env.events.types(), models.EventWorkoutCreated)
}

func TestCreateWorkout_CoercesNumbers(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	w, err := env.workouts.CreateWorkout(context.Background(), WorkoutInput{
		UserID:    float64(u.ID),
		Type:      strPtr("Cycling"),
		Duration:  "45",
		Calories:  "lots",
		Intensity: strPtr("high"),
		Notes:     strPtr(" hills "),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(45), w.Duration)
	assert.Zero(t, w.Calories)
	assert.Equal(t, "high", w.Intensity)
	assert.Equal(t, "hills", w.Notes)
}

func TestCreateWorkout_Errors(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	ctx := context.Background()

	tests := []struct {
		name    string
		input   WorkoutInput
		wantErr error
	}{
		{"missing user", WorkoutInput{Type: strPtr("Running")}, ErrMissingField},
		{"missing type", WorkoutInput{UserID: float64(u.ID)}, ErrMissingField},
		{"blank type", WorkoutInput{UserID: float64(u.ID), Type: strPtr("  ")}, ErrMissingField},
		{"unknown user", WorkoutInput{UserID: float64(u.ID + 1), Type: strPtr("Running")}, ErrUserNotFound},
		{"unknown user wins over bad values", WorkoutInput{UserID: float64(u.ID + 1), Type: strPtr("Running"), Duration: float64(-5)}, ErrUserNotFound},
		{"negative duration", WorkoutInput{UserID: float64(u.ID), Type: strPtr("Running"), Duration: float64(-5)}, ErrInvalidValue},
		{"negative calories", WorkoutInput{UserID: float64(u.ID), Type: strPtr("Running"), Calories: "-1"}, ErrInvalidValue},
		{"bad date", WorkoutInput{UserID: float64(u.ID), Type: strPtr("Running"), Date: strPtr("yesterday")}, ErrInvalidValue},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.workouts.CreateWorkout(ctx, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Empty(t, env.document(t).Workouts)
}

func TestListWorkouts_SortedByDateDescending(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	other := env.register(t, "other@gmail.com")

	env.createWorkout(t, u.ID, "A", "2024-01-01")
	env.createWorkout(t, u.ID, "B", "2024-03-01")
	env.createWorkout(t, other.ID, "X", "2024-04-01")
	env.createWorkout(t, u.ID, "C", "2024-02-01")

	got, err := env.workouts.ListWorkouts(context.Background(), float64(u.ID))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{got[0].Type, got[1].Type, got[2].Type})
	for _, w := range got {
		assert.Equal(t, u.ID, w.UserID)
	}
}

func TestListWorkouts_SameDateKeepsInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	env.createWorkout(t, u.ID, "first", "2024-05-01")
	env.createWorkout(t, u.ID, "second", "2024-05-01")

	got, err := env.workouts.ListWorkouts(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Type)
	assert.Equal(t, "second", got[1].Type)
}

func TestListWorkouts_EmptyAndMissing(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.workouts.ListWorkouts(context.Background(), "12345")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = env.workouts.ListWorkouts(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestUpdateWorkout_MergesAndKeepsID(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	w := env.createWorkout(t, u.ID, "Running", "2024-01-01")

	// an id in the body is not part of WorkoutInput and cannot move the record
	got, err := env.workouts.UpdateWorkout(context.Background(), w.ID, WorkoutInput{
		Type:     strPtr("X"),
		Calories: float64(350),
	})
	require.NoError(t, err)

	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, "X", got.Type)
	assert.Equal(t, float64(350), got.Calories)
	assert.Equal(t, w.Duration, got.Duration)
	assert.True(t, w.Date.Equal(got.Date))
	assert.True(t, w.Timestamp.Equal(got.Timestamp))

	doc := env.document(t)
	require.Len(t, doc.Workouts, 1)
	assert.Equal(t, "X", doc.Workouts[0].Type)
	assert.Equal(t, w.ID, doc.Workouts[0].ID)
}

func TestUpdateWorkout_Errors(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	w := env.createWorkout(t, u.ID, "Running", "2024-01-01")
	ctx := context.Background()

	_, err := env.workouts.UpdateWorkout(ctx, w.ID+1, WorkoutInput{Type: strPtr("X")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.workouts.UpdateWorkout(ctx, w.ID, WorkoutInput{Duration: float64(-10)})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = env.workouts.UpdateWorkout(ctx, w.ID, WorkoutInput{Type: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = env.workouts.UpdateWorkout(ctx, w.ID, WorkoutInput{UserID: float64(u.ID + 1)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	stored := env.document(t).Workouts[0]
	assert.Equal(t, "Running", stored.Type)
	assert.Equal(t, float64(30), stored.Duration)
}

func TestDeleteWorkout(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	keep := env.createWorkout(t, u.ID, "Keep", "2024-01-01")
	drop := env.createWorkout(t, u.ID, "Drop", "2024-01-02")
	ctx := context.Background()

	require.NoError(t, env.workouts.DeleteWorkout(ctx, drop.ID))

	doc := env.document(t)
	require.Len(t, doc.Workouts, 1)
	assert.Equal(t, keep.ID, doc.Workouts[0].ID)

	err := env.workouts.DeleteWorkout(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, env.document(t).Workouts, 1)
	assert.Contains(t, env.events.types(), models.EventWorkoutDeleted)
}

func TestCreateWorkout_ConcurrentWritersLoseNothing(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := env.workouts.CreateWorkout(context.Background(), WorkoutInput{
				UserID: float64(u.ID),
				Type:   strPtr("Rowing"),
			})
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	doc := env.document(t)
	assert.Len(t, doc.Workouts, n)
	seen := map[int64]bool{}
	for _, w := range doc.Workouts {
		assert.False(t, seen[w.ID], "duplicate id %d", w.ID)
		seen[w.ID] = true
	}
}

func TestCreateWorkout_MissingFieldsAreNamed(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	_, err := env.workouts.CreateWorkout(context.Background(), WorkoutInput{UserID: float64(u.ID)})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "type")
	assert.NotContains(t, err.Error(), "userId")

	_, err = env.workouts.CreateWorkout(context.Background(), WorkoutInput{})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "userId, type")
}
