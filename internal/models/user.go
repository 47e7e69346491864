package models

import "time"

// Profile defaults applied at registration.
const (
	DefaultDailyCalorieGoal = 2000
	DefaultActivityLevel    = "moderate"
)

// Profile holds the body metrics and goals of a user.
type Profile struct {
	Age              float64 `json:"age"`
	Weight           float64 `json:"weight"`
	Height           float64 `json:"height"`
	GoalWeight       float64 `json:"goalWeight"`
	DailyCalorieGoal float64 `json:"dailyCalorieGoal"`
	ActivityLevel    string  `json:"activityLevel"`
}

// DefaultProfile returns the profile every new account starts with.
func DefaultProfile() Profile {
	return Profile{
		DailyCalorieGoal: DefaultDailyCalorieGoal,
		ActivityLevel:    DefaultActivityLevel,
	}
}

// User represents a registered account.
// Password holds the bcrypt hash; it is persisted but never sent to clients.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"password,omitempty"`
	FullName   string    `json:"fullName"`
	JoinedDate time.Time `json:"joinedDate"`
	Profile    Profile   `json:"profile"`
}

// Sanitized returns a copy of the user without the password hash.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
