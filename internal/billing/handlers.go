package billing

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadgate/leadgate/internal/client"
)

// Handler provides HTTP endpoints for billing operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new billing handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes sets up admin-only billing routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/clients/:id/pause", h.PauseClient)
	r.POST("/clients/:id/mark-paid", h.MarkPaid)
	r.POST("/billing/reconcile", h.RunReconcile)
}

// PauseClient handles POST /v1/admin/clients/:id/pause
func (h *Handler) PauseClient(c *gin.Context) {
	cl, err := h.service.Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == client.ErrClientNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No client with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": cl})
}

// MarkPaid handles POST /v1/admin/clients/:id/mark-paid
func (h *Handler) MarkPaid(c *gin.Context) {
	cl, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == client.ErrClientNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No client with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": cl})
}

// RunReconcile handles POST /v1/admin/billing/reconcile
func (h *Handler) RunReconcile(c *gin.Context) {
	report, err := h.service.Reconcile(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
