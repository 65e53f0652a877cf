package mail

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSenderWithoutConfigIsDisabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  SMTPConfig
	}{
		{"empty", SMTPConfig{}},
		{"host only", SMTPConfig{Host: "smtp.example.com", Port: 587}},
		{"from only", SMTPConfig{From: "noreply@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSender(tc.cfg, testLogger())
			if _, ok := s.(*DisabledSender); !ok {
				t.Errorf("NewSender(%+v) = %T, want *DisabledSender", tc.cfg, s)
			}
		})
	}
}

func TestNewSenderWithConfig(t *testing.T) {
	s := NewSender(SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	}, testLogger())
	if _, ok := s.(*SMTPSender); !ok {
		t.Errorf("NewSender = %T, want *SMTPSender", s)
	}
}

func TestDisabledSenderSkips(t *testing.T) {
	s := NewDisabledSender(testLogger())

	res := s.Send(context.Background(), "someone@example.com", "Hello", "body")
	if res.Delivered {
		t.Error("disabled sender reported delivered")
	}
	if res.Reason != ReasonNotConfigured {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonNotConfigured)
	}
}

func TestSMTPSenderEmptyRecipient(t *testing.T) {
	s := &SMTPSender{cfg: SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}, logger: testLogger()}

	res := s.Send(context.Background(), "", "Hello", "body")
	if res.Delivered {
		t.Error("send without recipient reported delivered")
	}
	if res.Reason != ReasonNoRecipient {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonNoRecipient)
	}
}

func TestFormatMessage(t *testing.T) {
	msg := formatMessage("noreply@example.com", "to@example.com", "Renewal due", "Hi there")

	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: to@example.com\r\n",
		"Subject: Renewal due\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nHi there\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSanitizeHeaderStripsCRLF(t *testing.T) {
	got := sanitizeHeader("subject\r\nBcc: attacker@evil.test")
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("sanitized header still contains CR/LF: %q", got)
	}
}
