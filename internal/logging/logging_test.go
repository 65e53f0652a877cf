package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelForStatus(t *testing.T) {
	cases := map[int]slog.Level{
		200: slog.LevelInfo,
		201: slog.LevelInfo,
		304: slog.LevelInfo,
		400: slog.LevelWarn,
		404: slog.LevelWarn,
		429: slog.LevelWarn,
		500: slog.LevelError,
		503: slog.LevelError,
	}
	for status, want := range cases {
		if got := LevelForStatus(status); got != want {
			t.Errorf("LevelForStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestLAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req_abc123")

	L(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=req_abc123") {
		t.Errorf("log line missing request ID: %q", buf.String())
	}
}

func TestLWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	L(WithLogger(context.Background(), logger)).Info("hello")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("log line has unexpected request ID: %q", buf.String())
	}
}
