// Package client implements tenant subscription records for Leadgate.
//
// A client is a paying tenant with a public lead-capture page. Its
// subscription state is driven by the billing reconciler (auto-pause,
// reminders) and by explicit admin actions (pause, mark paid).
package client

import (
	"context"
	"errors"
	"time"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrCodeTaken      = errors.New("client code already taken")
)

// Status represents a client's subscription state.
type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

// Pause reasons recorded when a client transitions to paused.
const (
	PauseReasonExpired = "expired"
	PauseReasonManual  = "manual"
)

// Client represents a tenant subscription record.
type Client struct {
	ID          string `json:"id"`
	Code        string `json:"code"` // unique, used in public URLs
	Name        string `json:"name"`
	Email       string `json:"email"`
	BookingLink string `json:"bookingLink,omitempty"`

	Status         Status     `json:"status"`
	StartedAt      time.Time  `json:"startedAt"`
	DueAt          *time.Time `json:"dueAt,omitempty"`
	PausedAt       *time.Time `json:"pausedAt,omitempty"`
	PauseReason    string     `json:"pauseReason,omitempty"`
	LastReminderAt *time.Time `json:"lastReminderAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists client data. Code uniqueness is enforced by the store;
// Create returns ErrCodeTaken on collision.
type Store interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	GetByCode(ctx context.Context, code string) (*Client, error)
	Update(ctx context.Context, c *Client) error
	List(ctx context.Context, limit int) ([]*Client, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]*Client, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
