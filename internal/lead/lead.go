// Package lead implements end-customer inquiries for Leadgate.
//
// A lead is a message submitted through a client's public page. Leads are
// append-only and always persisted; whether anyone gets notified depends
// on the owning client's subscription status at submission time.
package lead

import (
	"context"
	"errors"
	"time"

	"github.com/leadgate/leadgate/internal/pagination"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead represents an end-customer inquiry tied to a client.
type Lead struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists lead data. Leads are never updated or deleted.
type Store interface {
	Create(ctx context.Context, l *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]*Lead, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]*Lead, error)
	CountByClient(ctx context.Context, clientID string) (int, error)
}
