package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadgate/leadgate/internal/billing"
	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/logging"
)

// dashboardHandler handles GET /v1/admin/dashboard.
//
// Loading the dashboard opportunistically runs a reconciliation pass so
// the numbers an admin sees are current, not up to an hour stale. The
// pass is best-effort: a reconciliation failure is logged and the
// dashboard still renders.
func (s *Server) dashboardHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var report *billing.Report
	report, err := s.billingSvc.Reconcile(ctx, time.Now())
	if err != nil {
		logging.L(ctx).Warn("dashboard reconciliation failed", "error", err)
		report = nil
	}

	counts, err := s.clientSvc.CountByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	recentLeads, _, _, err := s.leadSvc.List(ctx, "", 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	pendingIntakes, err := s.intakeSvc.ListPending(ctx, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": gin.H{
			"active": counts[client.StatusActive],
			"paused": counts[client.StatusPaused],
		},
		"recentLeads":    recentLeads,
		"pendingIntakes": pendingIntakes,
		"reconcile":      report, // null when the opportunistic pass failed
		"feed":           s.realtimeHub.Stats(),
	})
}
