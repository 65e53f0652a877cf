package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/pagination"
	"github.com/leadgate/leadgate/internal/validation"
)

// Handler provides HTTP endpoints for leads.
type Handler struct {
	service *Service
}

// NewHandler creates a new lead handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes sets up the unauthenticated per-client lead route.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/p/:code/leads", h.Submit)
}

// RegisterAdminRoutes sets up admin-only lead routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/leads", h.List)
	r.GET("/clients/:id/leads", h.ListByClient)
}

type submitRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Submit handles POST /v1/p/:code/leads
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	if !validation.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email",
			"message": "A valid email is required",
		})
		return
	}

	l, err := h.service.Submit(c.Request.Context(), c.Param("code"), SubmitInput{
		Name:    validation.SanitizeString(req.Name, 200),
		Email:   req.Email,
		Phone:   validation.SanitizeString(req.Phone, 50),
		Message: validation.SanitizeString(req.Message, 5000),
	})
	if err != nil {
		if err == client.ErrClientNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No client with this code",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lead": l})
}

// List handles GET /v1/admin/leads with cursor pagination.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	leads, next, hasMore, err := h.service.List(c.Request.Context(), c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_cursor",
				"message": "Malformed pagination cursor",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	resp := gin.H{
		"leads":   leads,
		"count":   len(leads),
		"hasMore": hasMore,
	}
	if next != "" {
		resp["nextCursor"] = next
	}
	c.JSON(http.StatusOK, resp)
}

// ListByClient handles GET /v1/admin/clients/:id/leads
func (h *Handler) ListByClient(c *gin.Context) {
	leads, total, err := h.service.ListByClient(c.Request.Context(), c.Param("id"), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"count": len(leads),
		"total": total,
	})
}
