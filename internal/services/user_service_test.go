package services

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Register(ctx, RegisterRequest{
		Username: "  John.Doe@Gmail.com ",
		Password: " password123 ",
		FullName: "  John Doe ",
	})
	require.NoError(t, err)
	assert.Equal(t, "john.doe@gmail.com", u.Username)
	assert.Equal(t, "John Doe", u.FullName)
	assert.Empty(t, u.Password)
	assert.Positive(t, u.ID)
	assert.False(t, u.JoinedDate.IsZero())
	assert.Equal(t, models.DefaultProfile(), u.Profile)

	got, err := env.users.Authenticate(ctx, "JOHN.DOE@gmail.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, got.Password)

	stored := env.document(t).Users[0]
	assert.NotEmpty(t, stored.Password)
	assert.NotEqual(t, "password123", stored.Password)

	assert.Equal(t, []string{models.EventUserRegistered, models.EventUserLogin}, env.events.types())
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"missing username", RegisterRequest{Password: "password123"}, ErrMissingField},
		{"missing password", RegisterRequest{Username: "jo@gmail.com"}, ErrMissingField},
		{"wrong domain", RegisterRequest{Username: "jo@yahoo.com", Password: "password123"}, ErrInvalidDomain},
		{"short local part", RegisterRequest{Username: "j@gmail.com", Password: "password123"}, ErrInvalidDomain},
		{"seven characters", RegisterRequest{Username: "jo@gmail.com", Password: "1234567"}, ErrWeakPassword},
		{"seven after trim", RegisterRequest{Username: "jo@gmail.com", Password: " 1234567 "}, ErrWeakPassword},
		{"seven characters in eight bytes", RegisterRequest{Username: "jo@gmail.com", Password: "passwö1"}, ErrWeakPassword},
		{"longer than bcrypt accepts", RegisterRequest{Username: "jo@gmail.com", Password: strings.Repeat("a", 73)}, ErrInvalidValue},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Empty(t, env.document(t).Users)
}

func TestRegister_PasswordLengthBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, RegisterRequest{Username: "jo@gmail.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = env.users.Register(ctx, RegisterRequest{Username: "ann@gmail.com", Password: "passwö12"})
	require.NoError(t, err)

	longest := strings.Repeat("a", 72)
	_, err = env.users.Register(ctx, RegisterRequest{Username: "max@gmail.com", Password: longest})
	require.NoError(t, err)

	_, err = env.users.Authenticate(ctx, "max@gmail.com", longest)
	assert.NoError(t, err)
	_, err = env.users.Authenticate(ctx, "max@gmail.com", longest+"a")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_MissingFieldsAreNamed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(context.Background(), RegisterRequest{Password: "  "})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "username, password")
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "jo@gmail.com")

	_, err := env.users.Register(context.Background(), RegisterRequest{Username: " JO@gmail.com", Password: "otherpassword"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.Len(t, env.document(t).Users, 1)
}

func TestAuthenticate_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "jo@gmail.com")
	ctx := context.Background()

	_, err := env.users.Authenticate(ctx, "", "password123")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = env.users.Authenticate(ctx, "jo@gmail.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, wrongPassword := env.users.Authenticate(ctx, "jo@gmail.com", "wrongpassword")
	_, unknownUser := env.users.Authenticate(ctx, "nobody@gmail.com", "password123")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUpdateProfile_Merges(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	ctx := context.Background()

	_, err := env.users.UpdateProfile(ctx, ProfileUpdate{UserID: float64(u.ID), Age: float64(30), Weight: float64(70)})
	require.NoError(t, err)

	got, err := env.users.UpdateProfile(ctx, ProfileUpdate{UserID: float64(u.ID), Weight: float64(75)})
	require.NoError(t, err)

	assert.Equal(t, float64(30), got.Profile.Age)
	assert.Equal(t, float64(75), got.Profile.Weight)
	assert.Equal(t, float64(models.DefaultDailyCalorieGoal), got.Profile.DailyCalorieGoal)
	assert.Equal(t, models.DefaultActivityLevel, got.Profile.ActivityLevel)
	assert.Empty(t, got.Password)

	stored := env.document(t).Users[0]
	assert.Equal(t, got.Profile, stored.Profile)
	assert.Equal(t, u.Username, stored.Username)
}

func TestUpdateProfile_ActivityLevelAndStringNumbers(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	got, err := env.users.UpdateProfile(context.Background(), ProfileUpdate{
		UserID:        "  " + strconv.FormatInt(u.ID, 10),
		Height:        "180",
		ActivityLevel: strPtr(" high "),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(180), got.Profile.Height)
	assert.Equal(t, "high", got.Profile.ActivityLevel)
}

func TestUpdateProfile_Errors(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")
	ctx := context.Background()

	_, err := env.users.UpdateProfile(ctx, ProfileUpdate{Weight: float64(70)})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = env.users.UpdateProfile(ctx, ProfileUpdate{UserID: float64(u.ID + 1), Weight: float64(70)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.users.UpdateProfile(ctx, ProfileUpdate{UserID: float64(u.ID), Weight: float64(-1)})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, float64(0), env.document(t).Users[0].Profile.Weight)
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "jo@gmail.com")

	got, err := env.users.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Username, got.Username)
	assert.Empty(t, got.Password)

	_, err = env.users.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
