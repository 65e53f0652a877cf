package client

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadgate/leadgate/internal/security"
	"github.com/leadgate/leadgate/internal/validation"
)

// Handler provides HTTP endpoints for client records.
type Handler struct {
	service *Service
}

// NewHandler creates a new client handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes sets up admin-only client routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/clients", h.Create)
	r.GET("/clients", h.List)
	r.GET("/clients/:id", h.Get)
	r.PUT("/clients/:id/booking-link", h.UpdateBookingLink)
}

type createRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	BookingLink string `json:"bookingLink"`
}

// Create handles POST /v1/admin/clients
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	if !validation.IsValidCode(req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_code",
			"message": "Code must be lowercase letters, digits, and hyphens",
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
	if req.BookingLink != "" {
		if err := security.ValidateBookingLink(req.BookingLink); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_booking_link",
				"message": err.Error(),
			})
			return
		}
	}

	cl, err := h.service.Create(c.Request.Context(), CreateInput{
		Code:        req.Code,
		Name:        validation.SanitizeString(req.Name, 200),
		Email:       req.Email,
		BookingLink: req.BookingLink,
	})
	if err != nil {
		if err == ErrCodeTaken {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "code_taken",
				"message": "A client with this code already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": cl})
}

// List handles GET /v1/admin/clients with an optional ?status= filter.
func (h *Handler) List(c *gin.Context) {
	var (
		clients []*Client
		err     error
	)
	switch status := c.Query("status"); status {
	case "":
		clients, err = h.service.List(c.Request.Context(), 200)
	case string(StatusActive), string(StatusPaused):
		clients, err = h.service.store.ListByStatus(c.Request.Context(), Status(status), 200)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_status",
			"message": "status must be active or paused",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"count":   len(clients),
	})
}

// Get handles GET /v1/admin/clients/:id
func (h *Handler) Get(c *gin.Context) {
	cl, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == ErrClientNotFound {
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

type bookingLinkRequest struct {
	BookingLink string `json:"bookingLink"`
}

// UpdateBookingLink handles PUT /v1/admin/clients/:id/booking-link.
// An empty link clears the auto-reply.
func (h *Handler) UpdateBookingLink(c *gin.Context) {
	var req bookingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	if req.BookingLink != "" {
		if err := security.ValidateBookingLink(req.BookingLink); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_booking_link",
				"message": err.Error(),
			})
			return
		}
	}

	cl, err := h.service.UpdateBookingLink(c.Request.Context(), c.Param("id"), req.BookingLink)
	if err != nil {
		if err == ErrClientNotFound {
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
