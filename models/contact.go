package models

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer represents someone who signed up to help
type Volunteer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Volunteer model
func (Volunteer) TableName() string {
	return "volunteers"
}

// NewVolunteer creates an active Volunteer
func NewVolunteer(fullName, email string, phone *string) *Volunteer {
	return &Volunteer{
		ID:        uuid.New(),
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// VolunteerStats counts volunteers
type VolunteerStats struct {
	TotalVolunteers  int `json:"total_volunteers"`
	ActiveVolunteers int `json:"active_volunteers"`
}

// Donor represents a recurring supporter tracked by the team
type Donor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Donor model
func (Donor) TableName() string {
	return "donors"
}

// NewDonor creates an active Donor
func NewDonor(fullName, email string, phone *string) *Donor {
	return &Donor{
		ID:        uuid.New(),
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}
