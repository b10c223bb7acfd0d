package models

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus tracks payment confirmation of a donation
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// Valid reports whether s is a known donation status
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusFailed:
		return true
	}
	return false
}

// Donation represents a pledge made through the public site
type Donation struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	Title            string         `json:"title" db:"title"`
	DonorName        string         `json:"donor_name" db:"donor_name"`
	DonorEmail       string         `json:"donor_email" db:"donor_email"`
	DonorPhone       string         `json:"donor_phone" db:"donor_phone"`
	Amount           float64        `json:"amount" db:"amount"`
	Status           DonationStatus `json:"status" db:"status"`
	PaymentReference *string        `json:"payment_reference" db:"payment_reference"` // receipt URL once uploaded
	IsAnonymous      bool           `json:"is_anonymous" db:"is_anonymous"`
	Message          *string        `json:"message" db:"message"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Donation model
func (Donation) TableName() string {
	return "donations"
}

// NewDonation creates a pending Donation
func NewDonation(title, donorName, donorEmail, donorPhone string, amount float64) *Donation {
	return &Donation{
		ID:         uuid.New(),
		Title:      title,
		DonorName:  donorName,
		DonorEmail: donorEmail,
		DonorPhone: donorPhone,
		Amount:     amount,
		Status:     DonationStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// DonationFilter narrows donation listings
type DonationFilter struct {
	Title  string
	Offset int
	Limit  int
}

// DonationStats aggregates donation amounts
type DonationStats struct {
	TotalAmount     float64 `json:"total_amount"`
	TotalDonations  int     `json:"total_donations"`
	AverageDonation float64 `json:"average_donation"`
}
