package server

import (
	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/intake"
	"github.com/leadgate/leadgate/internal/lead"
	"github.com/leadgate/leadgate/internal/realtime"
)

// hubEvents bridges service lifecycle events onto the realtime admin feed.
// It implements billing.EventSink, lead.EventSink, and intake.EventSink.
type hubEvents struct {
	hub *realtime.Hub
}

func (e *hubEvents) ClientReminded(c *client.Client, daysLeft int) {
	e.hub.Broadcast(realtime.EventClientReminded, map[string]interface{}{
		"clientId":   c.ID,
		"clientCode": c.Code,
		"daysLeft":   daysLeft,
	})
}

func (e *hubEvents) ClientPaused(c *client.Client, reason string) {
	e.hub.Broadcast(realtime.EventClientPaused, map[string]interface{}{
		"clientId":   c.ID,
		"clientCode": c.Code,
		"reason":     reason,
	})
}

func (e *hubEvents) ClientReactivated(c *client.Client) {
	e.hub.Broadcast(realtime.EventClientReactivated, map[string]interface{}{
		"clientId":   c.ID,
		"clientCode": c.Code,
	})
}

func (e *hubEvents) LeadCreated(l *lead.Lead, clientStatus client.Status) {
	e.hub.Broadcast(realtime.EventLeadCreated, map[string]interface{}{
		"leadId":       l.ID,
		"clientId":     l.ClientID,
		"name":         l.Name,
		"clientStatus": clientStatus,
	})
}

func (e *hubEvents) IntakeSubmitted(r *intake.Request) {
	e.hub.Broadcast(realtime.EventIntakeSubmitted, map[string]interface{}{
		"intakeId":     r.ID,
		"businessName": r.BusinessName,
	})
}
