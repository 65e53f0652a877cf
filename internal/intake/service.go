package intake

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/idgen"
	"github.com/leadgate/leadgate/internal/metrics"
)

// ClientCreator is the slice of the client service approval needs.
// Satisfied by *client.Service.
type ClientCreator interface {
	CreateWithDerivedCode(ctx context.Context, in client.CreateInput) (*client.Client, error)
}

// EventSink receives intake lifecycle events. A nil sink is valid.
type EventSink interface {
	IntakeSubmitted(r *Request)
}

// Service provides intake request business logic.
type Service struct {
	store   Store
	clients ClientCreator
	events  EventSink
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates an intake service.
func NewService(store Store, clients ClientCreator, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		clients: clients,
		logger:  logger,
		now:     time.Now,
	}
}

// WithEvents attaches a lifecycle event sink.
func (s *Service) WithEvents(sink EventSink) *Service {
	s.events = sink
	return s
}

// SubmitInput holds the fields of a public intake form submission.
type SubmitInput struct {
	BusinessName string
	ContactName  string
	Email        string
	BookingLink  string
}

// Submit records a new intake request in state NEW.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, error) {
	now := s.now()
	r := &Request{
		ID:           idgen.WithPrefix("int_"),
		BusinessName: strings.TrimSpace(in.BusinessName),
		ContactName:  strings.TrimSpace(in.ContactName),
		Email:        strings.TrimSpace(in.Email),
		BookingLink:  strings.TrimSpace(in.BookingLink),
		Status:       StatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}

	metrics.IntakesTotal.WithLabelValues("submitted").Inc()
	s.logger.Info("intake request submitted",
		"intake_id", r.ID,
		"business_name", r.BusinessName,
	)
	if s.events != nil {
		s.events.IntakeSubmitted(r)
	}
	return r, nil
}

// Approve converts a NEW intake request into a client record. The client's
// code is derived from the business name, disambiguated on collision. A
// request transitions to APPROVED exactly once; approving an already
// approved request returns ErrAlreadyApproved without creating anything.
func (s *Service) Approve(ctx context.Context, id string) (*Request, *client.Client, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if r.Status == StatusApproved {
		return nil, nil, ErrAlreadyApproved
	}

	cl, err := s.clients.CreateWithDerivedCode(ctx, client.CreateInput{
		Name:        r.BusinessName,
		Email:       r.Email,
		BookingLink: r.BookingLink,
	})
	if err != nil {
		return nil, nil, err
	}

	r.Status = StatusApproved
	r.ClientID = cl.ID
	r.UpdatedAt = s.now()
	if err := s.store.Update(ctx, r); err != nil {
		// The client exists but the intake record still reads NEW. Surface
		// the error; a retried approval would trip the code-derivation loop
		// onto the next suffix rather than fail.
		s.logger.Error("intake approved but status update failed",
			"intake_id", r.ID,
			"client_id", cl.ID,
			"error", err,
		)
		return nil, nil, err
	}

	metrics.IntakesTotal.WithLabelValues("approved").Inc()
	s.logger.Info("intake request approved",
		"intake_id", r.ID,
		"client_id", cl.ID,
		"client_code", cl.Code,
	)
	return r, cl, nil
}

// Get returns an intake request by ID.
func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	return s.store.Get(ctx, id)
}

// List returns intake requests in submission order.
func (s *Service) List(ctx context.Context, limit int) ([]*Request, error) {
	return s.store.List(ctx, limit)
}

// ListPending returns intake requests still awaiting approval.
func (s *Service) ListPending(ctx context.Context, limit int) ([]*Request, error) {
	return s.store.ListByStatus(ctx, StatusNew, limit)
}
