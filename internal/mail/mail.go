// Package mail provides the outbound notification capability.
//
// Senders never return an error: every attempt produces a Result, and a
// missing mail configuration degrades to a skipped send rather than a
// failure. Callers therefore cannot accidentally let a transport error
// escape into request handling or reconciliation loops.
package mail

import (
	"context"
)

// Reasons reported on undelivered sends.
const (
	ReasonNotConfigured = "not configured"
	ReasonNoRecipient   = "no recipient"
)

// Result is the outcome of a single send attempt.
type Result struct {
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// Sender delivers a single plain-text email. Implementations must be safe
// for concurrent use and must bound the time of each attempt.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) Result
}

// skipped builds an undelivered Result and counts it.
func skipped(reason string) Result {
	sendsTotal.WithLabelValues("skipped").Inc()
	return Result{Delivered: false, Reason: reason}
}
