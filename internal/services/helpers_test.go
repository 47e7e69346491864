package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isdelr/fittrack-be/internal/auth"
	"github.com/isdelr/fittrack-be/internal/database"
	"github.com/isdelr/fittrack-be/internal/idgen"
	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordedEvent struct {
	Type    string
	UserID  int64
	Payload interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) Publish(_ context.Context, eventType string, userID int64, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Type: eventType, UserID: userID, Payload: payload})
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store    *database.Store
	events   *fakeEvents
	users    *UserService
	workouts *WorkoutService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := database.New(filepath.Join(t.TempDir(), "db.json"), database.Options{})
	require.NoError(t, store.Initialize())

	ids, err := idgen.New(1)
	require.NoError(t, err)

	events := &fakeEvents{}
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	return &testEnv{
		store:    store,
		events:   events,
		users:    NewUserService(store, hasher, ids, events),
		workouts: NewWorkoutService(store, ids, events),
	}
}

func (e *testEnv) register(t *testing.T, username string) models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterRequest{Username: username, Password: "password123"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) document(t *testing.T) *models.Document {
	t.Helper()
	doc, err := e.store.Load()
	require.NoError(t, err)
	return doc
}

func strPtr(s string) *string { return &s }
