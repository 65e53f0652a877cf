// Package billing implements the subscription lifecycle engine for Leadgate.
//
// The reconciler evaluates every client against the current time: clients
// nearing their renewal deadline get a throttled reminder email, clients
// past it are auto-paused and notified. Manual admin actions (pause, mark
// paid) live here too, so all subscription state transitions go through
// one package.
package billing

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/mail"
)

// reminderThrottle suppresses repeat reminders. The check is a wall-clock
// delta against lastReminderAt, not calendar-day equality: a client
// reminded at 23:59 and evaluated again at 00:05 is still suppressed.
const reminderThrottle = 24 * time.Hour

// ClientStore is the slice of the client store the billing engine needs.
// Satisfied by client.Store.
type ClientStore interface {
	Get(ctx context.Context, id string) (*client.Client, error)
	Update(ctx context.Context, c *client.Client) error
	ListByStatus(ctx context.Context, status client.Status, limit int) ([]*client.Client, error)
}

// EventSink receives lifecycle events for live streaming. All methods are
// fire-and-forget; a nil sink is valid.
type EventSink interface {
	ClientReminded(c *client.Client, daysLeft int)
	ClientPaused(c *client.Client, reason string)
	ClientReactivated(c *client.Client)
}

// Config holds the billing policy knobs.
type Config struct {
	PlanDays            int    // subscription period length
	ReminderWindowDays  int    // days before dueAt during which reminders go out
	OperatorEmail       string // internal notification address (optional)
	PaymentInstructions string // inserted into reminder/pause mails
}

// Report summarizes one reconciliation pass.
type Report struct {
	Processed     int           `json:"processed"`
	RemindersSent int           `json:"remindersSent"`
	Paused        int           `json:"paused"`
	SendFailures  int           `json:"sendFailures"`
	Errors        int           `json:"errors"`
	StartedAt     time.Time     `json:"startedAt"`
	Duration      time.Duration `json:"durationMs"`
}

// Service drives subscription state transitions.
type Service struct {
	clients ClientStore
	sender  mail.Sender
	events  EventSink
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a billing service.
func NewService(clients ClientStore, sender mail.Sender, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		clients: clients,
		sender:  sender,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// WithEvents attaches a lifecycle event sink.
func (s *Service) WithEvents(sink EventSink) *Service {
	s.events = sink
	return s
}

// daysLeft is the number of days until due, using ceiling division: a due
// date a few hours away still reports 1, not 0. Reminder wording depends
// on this rounding.
func daysLeft(now, dueAt time.Time) int {
	return int(math.Ceil(dueAt.Sub(now).Hours() / 24))
}
