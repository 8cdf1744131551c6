package domain

import "time"

type Vehicle struct {
	ID          int64
	UserID      int64
	Plate       string
	Model       string
	IsPrincipal bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Descriptor is the short vehicle label the history screen renders.
func (v *Vehicle) Descriptor() string {
	if v.Model == "" {
		return v.Plate
	}
	return v.Plate + " (" + v.Model + ")"
}

type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}
