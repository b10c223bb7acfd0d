package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber represents a newsletter mailing list entry
type Subscriber struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	FullName       *string    `json:"full_name" db:"full_name"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	SubscribedAt   time.Time  `json:"subscribed_at" db:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at" db:"unsubscribed_at"`
}

// TableName returns the table name for the Subscriber model
func (Subscriber) TableName() string {
	return "subscribers"
}

// NewSubscriber creates an active Subscriber
func NewSubscriber(email string, fullName *string) *Subscriber {
	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		IsActive:     true,
		SubscribedAt: time.Now().UTC(),
	}
}

// Activate marks the subscriber as receiving mail again
func (s *Subscriber) Activate(now time.Time) {
	s.IsActive = true
	s.SubscribedAt = now
	s.UnsubscribedAt = nil
}

// Deactivate stops delivery and records when
func (s *Subscriber) Deactivate(now time.Time) {
	s.IsActive = false
	s.UnsubscribedAt = &now
}

// SubscriberStats summarizes the mailing list
type SubscriberStats struct {
	TotalSubscribers    int `json:"total_subscribers"`
	ActiveSubscribers   int `json:"active_subscribers"`
	InactiveSubscribers int `json:"inactive_subscribers"`
}
