package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/fittrack-be/internal/auth"
	"github.com/isdelr/fittrack-be/internal/database"
	"github.com/isdelr/fittrack-be/internal/idgen"
	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/isdelr/fittrack-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, req RegisterRequest) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	UpdateProfile(ctx context.Context, req ProfileUpdate) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// RegisterRequest carries the registration input.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// ProfileUpdate carries a partial profile. Nil fields are left untouched;
// numeric fields hold raw decoded JSON values and are coerced like workout numbers.
type ProfileUpdate struct {
	UserID           interface{} `json:"userId"`
	Age              interface{} `json:"age"`
	Weight           interface{} `json:"weight"`
	Height           interface{} `json:"height"`
	GoalWeight       interface{} `json:"goalWeight"`
	DailyCalorieGoal interface{} `json:"dailyCalorieGoal"`
	ActivityLevel    *string     `json:"activityLevel"`
}

// UserService provides registration, authentication and profile management.
type UserService struct {
	store  *database.Store
	hasher auth.PasswordHasher
	ids    idgen.Generator
	events EventServiceProvider
	now    func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store *database.Store, hasher auth.PasswordHasher, ids idgen.Generator, events EventServiceProvider) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		ids:    ids,
		events: events,
		now:    time.Now,
	}
}

// Register creates a new account and returns it without the password hash.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	if missing := validation.Missing("username", req.Username, "password", req.Password); len(missing) > 0 {
		return models.User{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	username := validation.NormalizeUsername(req.Username)
	password := strings.TrimSpace(req.Password)

	if !validation.IsAllowedAddress(username) {
		return models.User{}, ErrInvalidDomain
	}
	if !validation.IsStrongPassword(password) {
		return models.User{}, ErrWeakPassword
	}
	if !validation.FitsPasswordLimit(password) {
		return models.User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidValue, validation.MaxPasswordBytes)
	}

	// Hash outside the store lock; bcrypt is deliberately slow.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.store.Update(func(doc *models.Document) error {
		if doc.FindUserByUsername(username) >= 0 {
			return ErrDuplicateAccount
		}
		user = models.User{
			ID:         s.ids.NextID(),
			Username:   username,
			Password:   hash,
			FullName:   strings.TrimSpace(req.FullName),
			JoinedDate: s.now().UTC(),
			Profile:    models.DefaultProfile(),
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	log.Ctx(ctx).Info().Int64("user_id", user.ID).Str("username", username).Msg("User registered")
	s.events.Publish(ctx, models.EventUserRegistered, user.ID, user.Sanitized())
	return user.Sanitized(), nil
}

// Authenticate verifies credentials. Unknown users and wrong passwords yield the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return models.User{}, ErrMissingCredentials
	}
	username = validation.NormalizeUsername(username)
	// No stored hash can match a password registration would have refused.
	if !validation.FitsPasswordLimit(password) {
		return models.User{}, ErrInvalidCredentials
	}

	var user models.User
	found := false
	err := s.store.View(func(doc *models.Document) error {
		if i := doc.FindUserByUsername(username); i >= 0 {
			user = doc.Users[i]
			found = true
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrInvalidCredentials
	}
	// Registration trims the password before hashing, so login does too.
	if !s.hasher.Verify(user.Password, strings.TrimSpace(password)) {
		return models.User{}, ErrInvalidCredentials
	}

	s.events.Publish(ctx, models.EventUserLogin, user.ID, nil)
	return user.Sanitized(), nil
}

// GetUserByID returns a single user without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.store.View(func(doc *models.Document) error {
		i := doc.FindUser(id)
		if i < 0 {
			return ErrUserNotFound
		}
		user = doc.Users[i]
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile merges the provided fields into the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, req ProfileUpdate) (models.User, error) {
	userID, ok := validation.ParseID(req.UserID)
	if !ok {
		return models.User{}, fmt.Errorf("%w: userId", ErrMissingField)
	}

	numbers := []struct {
		name  string
		value interface{}
		dst   func(p *models.Profile, v float64)
	}{
		{"age", req.Age, func(p *models.Profile, v float64) { p.Age = v }},
		{"weight", req.Weight, func(p *models.Profile, v float64) { p.Weight = v }},
		{"height", req.Height, func(p *models.Profile, v float64) { p.Height = v }},
		{"goalWeight", req.GoalWeight, func(p *models.Profile, v float64) { p.GoalWeight = v }},
		{"dailyCalorieGoal", req.DailyCalorieGoal, func(p *models.Profile, v float64) { p.DailyCalorieGoal = v }},
	}

	var user models.User
	err := s.store.Update(func(doc *models.Document) error {
		i := doc.FindUser(userID)
		if i < 0 {
			return ErrUserNotFound
		}

		profile := doc.Users[i].Profile
		for _, f := range numbers {
			v, provided := validation.ToNumber(f.value)
			if !provided {
				continue
			}
			if !validation.IsNonNegative(v) {
				return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, f.name)
			}
			f.dst(&profile, v)
		}
		if req.ActivityLevel != nil {
			profile.ActivityLevel = strings.TrimSpace(*req.ActivityLevel)
		}

		doc.Users[i].Profile = profile
		user = doc.Users[i]
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.events.Publish(ctx, models.EventProfileUpdated, user.ID, user.Profile)
	return user.Sanitized(), nil
}
