package lead

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/idgen"
	"github.com/leadgate/leadgate/internal/mail"
	"github.com/leadgate/leadgate/internal/metrics"
	"github.com/leadgate/leadgate/internal/pagination"
	"github.com/leadgate/leadgate/internal/traces"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ClientLookup resolves the client owning a public page. Satisfied by
// *client.Service.
type ClientLookup interface {
	GetByCode(ctx context.Context, code string) (*client.Client, error)
}

// EventSink receives lead events for live streaming. A nil sink is valid.
type EventSink interface {
	LeadCreated(l *Lead, clientStatus client.Status)
}

// Service records leads and routes notifications.
type Service struct {
	store         Store
	clients       ClientLookup
	sender        mail.Sender
	events        EventSink
	operatorEmail string
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates a lead service. operatorEmail may be empty, in which
// case no internal notifications are sent.
func NewService(store Store, clients ClientLookup, sender mail.Sender, operatorEmail string, logger *slog.Logger) *Service {
	return &Service{
		store:         store,
		clients:       clients,
		sender:        sender,
		operatorEmail: operatorEmail,
		logger:        logger,
		now:           time.Now,
	}
}

// WithEvents attaches a lead event sink.
func (s *Service) WithEvents(sink EventSink) *Service {
	s.events = sink
	return s
}

// SubmitInput holds the fields of a public lead form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Submit records a lead against the client identified by code. The lead is
// persisted regardless of the client's status; notifications (client,
// operator, booking-link auto-reply to the lead) go out only while the
// client is active. A paused client's page keeps collecting leads silently.
func (s *Service) Submit(ctx context.Context, code string, in SubmitInput) (*Lead, error) {
	ctx, span := traces.StartSpan(ctx, "lead.Submit", traces.ClientCode(code))
	defer span.End()

	cl, err := s.clients.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	l := &Lead{
		ID:        idgen.WithPrefix("lead_"),
		ClientID:  cl.ID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: s.now(),
	}
	if err := s.store.Create(ctx, l); err != nil {
		return nil, err
	}

	metrics.LeadsTotal.WithLabelValues(string(cl.Status)).Inc()
	s.logger.Info("lead recorded",
		"lead_id", l.ID,
		"client_id", cl.ID,
		"client_status", cl.Status,
	)
	if s.events != nil {
		s.events.LeadCreated(l, cl.Status)
	}

	if cl.Status == client.StatusActive {
		s.notify(ctx, cl, l)
	}
	return l, nil
}

// notify fans out the three lead notifications. Send results are logged,
// never returned; a failed send must not fail the submission.
func (s *Service) notify(ctx context.Context, cl *client.Client, l *Lead) {
	res := s.sender.Send(ctx, cl.Email,
		fmt.Sprintf("New lead: %s", l.Name),
		clientNotification(cl, l))
	if !res.Delivered {
		s.logger.Warn("lead notification to client not delivered",
			"lead_id", l.ID, "client_id", cl.ID, "reason", res.Reason)
	}

	if s.operatorEmail != "" {
		res = s.sender.Send(ctx, s.operatorEmail,
			fmt.Sprintf("[leadgate] New lead for %s", cl.Name),
			operatorNotification(cl, l))
		if !res.Delivered {
			s.logger.Warn("lead notification to operator not delivered",
				"lead_id", l.ID, "reason", res.Reason)
		}
	}

	if cl.BookingLink != "" && l.Email != "" {
		res = s.sender.Send(ctx, l.Email,
			fmt.Sprintf("Thanks for reaching out to %s", cl.Name),
			autoReply(cl, l))
		if !res.Delivered {
			s.logger.Warn("booking auto-reply not delivered",
				"lead_id", l.ID, "reason", res.Reason)
		}
	}
}

// Get returns a lead by ID.
func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	return s.store.Get(ctx, id)
}

// List returns one page of leads newest first. cursorStr is the opaque
// cursor from a previous page, or empty for the first page. Returns the
// page, the cursor for the next page, and whether more leads remain.
func (s *Service) List(ctx context.Context, cursorStr string, limit int) ([]*Lead, string, bool, error) {
	cursor, err := pagination.Decode(cursorStr)
	if err != nil {
		return nil, "", false, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	// Fetch one extra row to learn whether another page exists.
	leads, err := s.store.List(ctx, cursor, limit+1)
	if err != nil {
		return nil, "", false, err
	}
	page, next, hasMore := pagination.ComputePage(leads, limit, func(l *Lead) (time.Time, string) {
		return l.CreatedAt, l.ID
	})
	return page, next, hasMore, nil
}

// ListByClient returns a client's leads newest first, capped at limit,
// along with the client's total lead count.
func (s *Service) ListByClient(ctx context.Context, clientID string, limit int) ([]*Lead, int, error) {
	leads, err := s.store.ListByClient(ctx, clientID, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountByClient(ctx, clientID)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}
