package models

// Document is the single persisted aggregate holding every user and workout.
type Document struct {
	Users    []User    `json:"users"`
	Workouts []Workout `json:"workouts"`
}

// NewDocument returns an empty document with both collections allocated,
// so it serializes as empty arrays rather than null.
func NewDocument() *Document {
	return &Document{
		Users:    []User{},
		Workouts: []Workout{},
	}
}

// Normalize replaces nil collections with empty ones.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Workouts == nil {
		d.Workouts = []Workout{}
	}
}

// FindUser returns the index of the user with the given id, or -1.
func (d *Document) FindUser(id int64) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// FindUserByUsername returns the index of the user with the given username, or -1.
func (d *Document) FindUserByUsername(username string) int {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return i
		}
	}
	return -1
}

// FindWorkout returns the index of the workout with the given id, or -1.
func (d *Document) FindWorkout(id int64) int {
	for i := range d.Workouts {
		if d.Workouts[i].ID == id {
			return i
		}
	}
	return -1
}
