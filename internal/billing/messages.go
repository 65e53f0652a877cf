package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/leadgate/leadgate/internal/client"
)

// reminderMessage builds the renewal reminder mail. The "N day(s) left"
// wording tracks the ceiling-division daysLeft computation.
func reminderMessage(c *client.Client, days int, instructions string) (subject, body string) {
	subject = fmt.Sprintf("Your subscription renews in %d day(s)", days)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", c.Name)
	fmt.Fprintf(&b, "Your Leadgate subscription has %d day(s) left. ", days)
	b.WriteString("Renew before the deadline to keep your lead page active.\n")
	if instructions != "" {
		b.WriteString("\nPayment instructions:\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	b.WriteString("\nThanks,\nThe Leadgate team\n")
	return subject, b.String()
}

// pausedMessage builds the notice sent when a subscription is paused,
// whether by expiry or by an admin.
func pausedMessage(c *client.Client, instructions string) (subject, body string) {
	subject = "Your subscription is paused"

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", c.Name)
	b.WriteString("Your Leadgate subscription is paused. Your lead page keeps collecting\n")
	b.WriteString("inquiries, but notifications are on hold until the subscription is renewed.\n")
	if instructions != "" {
		b.WriteString("\nPayment instructions:\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	b.WriteString("\nThanks,\nThe Leadgate team\n")
	return subject, b.String()
}

// reactivatedMessage builds the confirmation sent after a payment is recorded.
func reactivatedMessage(c *client.Client, dueAt time.Time) (subject, body string) {
	subject = "Payment received, subscription active"

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", c.Name)
	fmt.Fprintf(&b, "Thanks! Your payment is recorded and your subscription is active until %s.\n",
		dueAt.Format("2 January 2006"))
	b.WriteString("\nThanks,\nThe Leadgate team\n")
	return subject, b.String()
}

// operatorPausedMessage builds the internal notice about an auto-pause.
func operatorPausedMessage(c *client.Client) (subject, body string) {
	subject = fmt.Sprintf("[leadgate] client %s auto-paused", c.Code)
	body = fmt.Sprintf("Client %s (%s, %s) was paused for non-payment.\n", c.Name, c.Code, c.Email)
	return subject, body
}
