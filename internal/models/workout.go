package models

import "time"

// DefaultIntensity is used when a workout is logged without one.
const DefaultIntensity = "medium"

// Workout is a single logged training session.
type Workout struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Type      string    `json:"type"`
	Duration  float64   `json:"duration"`
	Calories  float64   `json:"calories"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes"`
	Intensity string    `json:"intensity"`
	Timestamp time.Time `json:"timestamp"` // creation time, never updated
}
