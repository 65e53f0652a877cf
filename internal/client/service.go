package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leadgate/leadgate/internal/idgen"
)

// maxCodeAttempts bounds the disambiguation loop when deriving codes.
const maxCodeAttempts = 50

// Service provides client record business logic.
type Service struct {
	store    Store
	planDays int
	now      func() time.Time
}

// NewService creates a new client service. planDays is the subscription
// period length applied to newly created clients.
func NewService(store Store, planDays int) *Service {
	return &Service{
		store:    store,
		planDays: planDays,
		now:      time.Now,
	}
}

// CreateInput holds the fields for creating a client.
type CreateInput struct {
	Code        string
	Name        string
	Email       string
	BookingLink string
}

// Create registers a new active client whose first subscription period
// starts now and runs for the configured plan length.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Client, error) {
	now := s.now()
	due := now.AddDate(0, 0, s.planDays)

	c := &Client{
		ID:          idgen.WithPrefix("cli_"),
		Code:        strings.ToLower(strings.TrimSpace(in.Code)),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		BookingLink: strings.TrimSpace(in.BookingLink),
		Status:      StatusActive,
		StartedAt:   now,
		DueAt:       &due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateWithDerivedCode creates a client whose code is derived from the
// business name, retrying with numeric suffixes on collision. The result
// is deterministic: if "acme" is taken the next approval yields "acme2".
func (s *Service) CreateWithDerivedCode(ctx context.Context, in CreateInput) (*Client, error) {
	base := DeriveCode(in.Name)
	for n := 1; n <= maxCodeAttempts; n++ {
		in.Code = CandidateCode(base, n)
		c, err := s.Create(ctx, in)
		if err == ErrCodeTaken {
			continue
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("could not derive unique code from %q after %d attempts", in.Name, maxCodeAttempts)
}

// Get returns a client by ID.
func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.store.Get(ctx, id)
}

// GetByCode returns a client by its public code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Client, error) {
	return s.store.GetByCode(ctx, strings.ToLower(code))
}

// List returns clients in creation order.
func (s *Service) List(ctx context.Context, limit int) ([]*Client, error) {
	return s.store.List(ctx, limit)
}

// CountByStatus returns client counts grouped by subscription status.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.store.CountByStatus(ctx)
}

// UpdateBookingLink sets or clears a client's booking link.
func (s *Service) UpdateBookingLink(ctx context.Context, id, link string) (*Client, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.BookingLink = strings.TrimSpace(link)
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
