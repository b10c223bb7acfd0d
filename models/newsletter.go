package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterStatus is the delivery state of a newsletter
type NewsletterStatus string

const (
	NewsletterStatusDraft     NewsletterStatus = "draft"
	NewsletterStatusScheduled NewsletterStatus = "scheduled"
	NewsletterStatusSending   NewsletterStatus = "sending"
	NewsletterStatusSent      NewsletterStatus = "sent"
)

// Newsletter represents a mailing composed by an admin
type Newsletter struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Subject     string           `json:"subject" db:"subject"`
	Content     string           `json:"content" db:"content"`
	HTMLContent *string          `json:"html_content" db:"html_content"`
	Status      NewsletterStatus `json:"status" db:"status"`
	ScheduledAt *time.Time       `json:"scheduled_at" db:"scheduled_at"`
	SentAt      *time.Time       `json:"sent_at" db:"sent_at"`
	CreatedBy   *uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Newsletter model
func (Newsletter) TableName() string {
	return "newsletters"
}

// NewNewsletter creates a draft, or a scheduled newsletter when scheduledAt is set
func NewNewsletter(subject, content string, htmlContent *string, scheduledAt *time.Time, createdBy *uuid.UUID) *Newsletter {
	n := &Newsletter{
		ID:          uuid.New(),
		Subject:     subject,
		Content:     content,
		HTMLContent: htmlContent,
		Status:      NewsletterStatusDraft,
		ScheduledAt: scheduledAt,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	n.syncStatus()
	return n
}

// IsSent returns true once the newsletter was delivered
func (n *Newsletter) IsSent() bool {
	return n.Status == NewsletterStatusSent
}

// IsSending returns true while a delivery run holds the newsletter
func (n *Newsletter) IsSending() bool {
	return n.Status == NewsletterStatusSending
}

// MarkSent records delivery
func (n *Newsletter) MarkSent(now time.Time) {
	n.Status = NewsletterStatusSent
	n.SentAt = &now
}

// Reschedule updates the scheduled time and derives the status from it
func (n *Newsletter) Reschedule(at *time.Time) {
	n.ScheduledAt = at
	n.syncStatus()
}

func (n *Newsletter) syncStatus() {
	if n.IsSent() || n.IsSending() {
		return
	}
	if n.ScheduledAt != nil {
		n.Status = NewsletterStatusScheduled
	} else {
		n.Status = NewsletterStatusDraft
	}
}

// EmailTemplate is a reusable message layout
type EmailTemplate struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Subject      string    `json:"subject" db:"subject"`
	HTMLContent  string    `json:"html_content" db:"html_content"`
	TextContent  *string   `json:"text_content" db:"text_content"`
	TemplateType string    `json:"template_type" db:"template_type"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the EmailTemplate model
func (EmailTemplate) TableName() string {
	return "email_templates"
}

// NewEmailTemplate creates an active EmailTemplate
func NewEmailTemplate(name, subject, htmlContent string, textContent *string, templateType string) *EmailTemplate {
	now := time.Now().UTC()
	return &EmailTemplate{
		ID:           uuid.New(),
		Name:         name,
		Subject:      subject,
		HTMLContent:  htmlContent,
		TextContent:  textContent,
		TemplateType: templateType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DashboardStats is the headline figure set shown on the dashboard
type DashboardStats struct {
	TotalDonations    int     `json:"total_donations"`
	TotalAmountRaised float64 `json:"total_amount_raised"`
	PendingDonations  int     `json:"pending_donations"`
	TotalSubscribers  int     `json:"total_subscribers"`
	ActiveSubscribers int     `json:"active_subscribers"`
	TotalVolunteers   int     `json:"total_volunteers"`
	TotalDonors       int     `json:"total_donors"`
	TotalNewsletters  int     `json:"total_newsletters"`
}
