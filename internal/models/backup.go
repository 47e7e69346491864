package models

import "time"

// Backup describes a zip snapshot of the document on disk.
type Backup struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"` // Internal use, not exposed to client
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
