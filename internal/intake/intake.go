// Package intake implements prospective-client applications.
//
// An intake request is a self-service application submitted through the
// public site. It stays NEW until an admin approves it, at which point a
// client record is created exactly once with a code derived from the
// business name.
package intake

import (
	"context"
	"errors"
	"time"
)

var (
	ErrIntakeNotFound  = errors.New("intake request not found")
	ErrAlreadyApproved = errors.New("intake request already approved")
)

// Status represents an intake request's state.
type Status string

const (
	StatusNew      Status = "new"
	StatusApproved Status = "approved"
)

// Request represents a prospective client's self-submitted application.
type Request struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email"`
	BookingLink  string    `json:"bookingLink,omitempty"`
	Status       Status    `json:"status"`
	ClientID     string    `json:"clientId,omitempty"` // set on approval
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Store persists intake request data.
type Store interface {
	Create(ctx context.Context, r *Request) error
	Get(ctx context.Context, id string) (*Request, error)
	Update(ctx context.Context, r *Request) error
	List(ctx context.Context, limit int) ([]*Request, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]*Request, error)
}
