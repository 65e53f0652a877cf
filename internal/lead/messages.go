package lead

import (
	"fmt"
	"strings"

	"github.com/leadgate/leadgate/internal/client"
)

func clientNotification(cl *client.Client, l *Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", cl.Name)
	fmt.Fprintf(&b, "You have a new lead from your page:\n\n")
	fmt.Fprintf(&b, "Name:  %s\n", l.Name)
	fmt.Fprintf(&b, "Email: %s\n", l.Email)
	if l.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", l.Phone)
	}
	if l.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", l.Message)
	}
	b.WriteString("\n— Leadgate\n")
	return b.String()
}

func operatorNotification(cl *client.Client, l *Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New lead for client %s (%s).\n\n", cl.Name, cl.Code)
	fmt.Fprintf(&b, "Name:  %s\n", l.Name)
	fmt.Fprintf(&b, "Email: %s\n", l.Email)
	if l.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", l.Phone)
	}
	return b.String()
}

func autoReply(cl *client.Client, l *Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", l.Name)
	fmt.Fprintf(&b, "Thanks for getting in touch with %s. ", cl.Name)
	fmt.Fprintf(&b, "You can book a time directly here:\n\n%s\n", cl.BookingLink)
	fmt.Fprintf(&b, "\nWe look forward to speaking with you.\n")
	return b.String()
}
