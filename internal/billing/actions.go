package billing

import (
	"context"

	"github.com/leadgate/leadgate/internal/client"
)

// Pause suspends a client's subscription immediately. Pausing an already
// paused client is an idempotent no-op: no re-stamp, no second mail.
func (s *Service) Pause(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == client.StatusPaused {
		return c, nil
	}

	now := s.now()
	c.Status = client.StatusPaused
	c.PausedAt = &now
	c.PauseReason = client.PauseReasonManual
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	pausesTotal.WithLabelValues(client.PauseReasonManual).Inc()

	subject, body := pausedMessage(c, s.cfg.PaymentInstructions)
	s.sender.Send(ctx, c.Email, subject, body)

	if s.events != nil {
		s.events.ClientPaused(c, client.PauseReasonManual)
	}
	s.logger.Info("client paused manually", "client_id", c.ID, "code", c.Code)
	return c, nil
}

// MarkPaid records a manual payment assertion: the client becomes active
// and a fresh subscription period starts now. This is an unconditional
// reset of dueAt to now + planDays, not an additive extension, and it is
// the only path that advances dueAt after creation.
func (s *Service) MarkPaid(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	due := now.AddDate(0, 0, s.cfg.PlanDays)
	c.Status = client.StatusActive
	c.StartedAt = now
	c.DueAt = &due
	c.PausedAt = nil
	c.PauseReason = ""
	c.LastReminderAt = nil
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	reactivationsTotal.Inc()

	subject, body := reactivatedMessage(c, due)
	s.sender.Send(ctx, c.Email, subject, body)

	if s.events != nil {
		s.events.ClientReactivated(c)
	}
	s.logger.Info("client marked paid", "client_id", c.ID, "code", c.Code, "due_at", due)
	return c, nil
}
