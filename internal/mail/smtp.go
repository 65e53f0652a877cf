package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/leadgate/leadgate/internal/retry"
)

// sendTimeout bounds a single SMTP conversation. A hung relay must not be
// able to stall a whole reconciliation pass.
const sendTimeout = 15 * time.Second

// Transient connection failures get a couple of quick retries before the
// send is reported as skipped. SMTP-level rejections are not retried.
const (
	sendAttempts   = 3
	sendRetryDelay = 500 * time.Millisecond
)

// SMTPConfig holds the relay settings for the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLSSkipVerify disables certificate verification on STARTTLS. Only
	// for relays with self-signed certificates.
	TLSSkipVerify bool
}

// SMTPSender sends mail through an SMTP relay with STARTTLS when offered.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

var _ Sender = (*SMTPSender)(nil)

// NewSender returns the appropriate Sender for the given configuration.
// When the relay host or From address is missing it returns a DisabledSender,
// so the rest of the system keeps working with skipped sends.
func NewSender(cfg SMTPConfig, logger *slog.Logger) Sender {
	if cfg.Host == "" || cfg.From == "" {
		logger.Warn("outbound mail not configured, sends will be skipped")
		return &DisabledSender{logger: logger}
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// Send delivers one plain-text message. It never returns an error; transport
// failures are logged and reported in the Result.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) Result {
	if to == "" {
		return skipped(ReasonNoRecipient)
	}

	start := time.Now()
	err := retry.Do(ctx, sendAttempts, sendRetryDelay, func() error {
		return s.deliver(ctx, to, subject, body)
	})
	sendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		sendsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("mail send failed",
			"to", to,
			"subject", subject,
			"error", err,
		)
		return Result{Delivered: false, Reason: err.Error()}
	}

	sendsTotal.WithLabelValues("delivered").Inc()
	s.logger.Info("mail sent", "to", to, "subject", subject)
	return Result{Delivered: true}
}

func (s *SMTPSender) deliver(ctx context.Context, to, subject, body string) error {
	deadline := time.Now().Add(sendTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	// One deadline covers the whole SMTP conversation.
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = client.Close() }()

	// Past this point the relay is answering. Rejections are not going to
	// heal on a retry, so they are marked permanent.
	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{
			ServerName:         s.cfg.Host,
			InsecureSkipVerify: s.cfg.TLSSkipVerify,
		}
		if err := client.StartTLS(tlsCfg); err != nil {
			return retry.Permanent(fmt.Errorf("starttls: %w", err))
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return retry.Permanent(fmt.Errorf("auth: %w", err))
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return retry.Permanent(fmt.Errorf("mail from: %w", err))
	}
	if err := client.Rcpt(to); err != nil {
		return retry.Permanent(fmt.Errorf("rcpt to: %w", err))
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(formatMessage(s.cfg.From, to, subject, body))); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return client.Quit()
}

// formatMessage assembles RFC 5322-ish headers plus the plain-text body.
func formatMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}

// sanitizeHeader strips CR/LF so user-supplied text cannot inject headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
