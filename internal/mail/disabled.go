package mail

import (
	"context"
	"log/slog"
)

// DisabledSender is used when no mail credentials are configured.
// Every Send reports an undelivered Result with the "not configured" reason.
type DisabledSender struct {
	logger *slog.Logger
}

var _ Sender = (*DisabledSender)(nil)

// NewDisabledSender creates a sender that skips every send.
func NewDisabledSender(logger *slog.Logger) *DisabledSender {
	return &DisabledSender{logger: logger}
}

func (d *DisabledSender) Send(_ context.Context, to, subject, _ string) Result {
	if d.logger != nil {
		d.logger.Info("mail skipped (not configured)", "to", to, "subject", subject)
	}
	return skipped(ReasonNotConfigured)
}
