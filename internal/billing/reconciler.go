package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/traces"
	"go.opentelemetry.io/otel/attribute"
)

// Reconcile runs one full pass over all active and paused clients,
// applying the lifecycle rules as of now.
//
// It is safe to invoke repeatedly or concurrently within the same time
// window: the 24h reminder throttle and the active-status guard bound (but
// do not strictly prevent) duplicate effects when invocations race. One
// client's failure never aborts the rest of the pass, and state mutations
// commit even when the associated notification fails.
func (s *Service) Reconcile(ctx context.Context, now time.Time) (*Report, error) {
	ctx, span := traces.StartSpan(ctx, "billing.reconcile")
	defer span.End()

	report := &Report{StartedAt: now}
	start := time.Now()

	for _, status := range []client.Status{client.StatusActive, client.StatusPaused} {
		list, err := s.clients.ListByStatus(ctx, status, 0)
		if err != nil {
			reconcileErrors.Inc()
			return nil, fmt.Errorf("list %s clients: %w", status, err)
		}
		for _, c := range list {
			s.reconcileClient(ctx, c, now, report)
		}
	}

	report.Duration = time.Since(start)
	reconcileRuns.Inc()
	reconcileDuration.Observe(report.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("billing.processed", report.Processed),
		attribute.Int("billing.reminders_sent", report.RemindersSent),
		attribute.Int("billing.paused", report.Paused),
	)

	if report.RemindersSent > 0 || report.Paused > 0 || report.Errors > 0 {
		s.logger.Info("reconciliation pass completed",
			"processed", report.Processed,
			"reminders_sent", report.RemindersSent,
			"paused", report.Paused,
			"send_failures", report.SendFailures,
			"errors", report.Errors,
			"duration_ms", report.Duration.Milliseconds(),
		)
	}
	return report, nil
}

func (s *Service) reconcileClient(ctx context.Context, c *client.Client, now time.Time, report *Report) {
	if c.DueAt == nil {
		return // no renewal deadline, nothing to reconcile
	}
	report.Processed++

	// Paused clients stay inert until an admin reactivates them.
	if c.Status != client.StatusActive {
		return
	}

	days := daysLeft(now, *c.DueAt)
	if days <= 0 {
		s.expire(ctx, c, now, report)
		return
	}
	if days <= s.cfg.ReminderWindowDays {
		s.remind(ctx, c, now, days, report)
	}
}

// remind sends a renewal reminder unless one went out within the last 24h.
// The reminder timestamp is committed before the send so a transport
// failure cannot re-trigger the mail every pass for a full day.
func (s *Service) remind(ctx context.Context, c *client.Client, now time.Time, days int, report *Report) {
	if c.LastReminderAt != nil && now.Sub(*c.LastReminderAt) < reminderThrottle {
		return
	}

	c.LastReminderAt = &now
	if err := s.clients.Update(ctx, c); err != nil {
		report.Errors++
		reconcileErrors.Inc()
		s.logger.Warn("failed to record reminder timestamp",
			"client_id", c.ID, "error", err)
		return
	}

	subject, body := reminderMessage(c, days, s.cfg.PaymentInstructions)
	res := s.sender.Send(ctx, c.Email, subject, body)
	report.RemindersSent++
	remindersTotal.Inc()
	if !res.Delivered {
		report.SendFailures++
	}

	if s.events != nil {
		s.events.ClientReminded(c, days)
	}
	s.logger.Info("renewal reminder",
		"client_id", c.ID, "code", c.Code, "days_left", days, "delivered", res.Delivered)
}

// expire pauses a client whose renewal deadline has passed and notifies
// the client plus the operator (when configured).
func (s *Service) expire(ctx context.Context, c *client.Client, now time.Time, report *Report) {
	c.Status = client.StatusPaused
	c.PausedAt = &now
	c.PauseReason = client.PauseReasonExpired
	if err := s.clients.Update(ctx, c); err != nil {
		report.Errors++
		reconcileErrors.Inc()
		s.logger.Warn("failed to pause expired client",
			"client_id", c.ID, "error", err)
		return
	}

	subject, body := pausedMessage(c, s.cfg.PaymentInstructions)
	res := s.sender.Send(ctx, c.Email, subject, body)
	report.Paused++
	pausesTotal.WithLabelValues(client.PauseReasonExpired).Inc()
	if !res.Delivered {
		report.SendFailures++
	}

	if s.cfg.OperatorEmail != "" {
		opSubject, opBody := operatorPausedMessage(c)
		opRes := s.sender.Send(ctx, s.cfg.OperatorEmail, opSubject, opBody)
		if !opRes.Delivered {
			report.SendFailures++
		}
	}

	if s.events != nil {
		s.events.ClientPaused(c, client.PauseReasonExpired)
	}
	s.logger.Info("client auto-paused on expiry",
		"client_id", c.ID, "code", c.Code, "delivered", res.Delivered)
}
