package intake

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadgate/leadgate/internal/validation"
)

// Handler provides HTTP endpoints for intake requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new intake handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes sets up the unauthenticated intake route.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/intake", h.Submit)
}

// RegisterAdminRoutes sets up admin-only intake routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/intakes", h.List)
	r.GET("/intakes/:id", h.Get)
	r.POST("/intakes/:id/approve", h.Approve)
}

type submitRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	ContactName  string `json:"contactName" binding:"required"`
	Email        string `json:"email" binding:"required"`
	BookingLink  string `json:"bookingLink"`
}

// Submit handles POST /v1/intake
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
			"message": "A valid contact email is required",
		})
		return
	}
	if req.BookingLink != "" && !validation.IsValidURL(req.BookingLink) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_booking_link",
			"message": "Booking link must be an http(s) URL",
		})
		return
	}

	r, err := h.service.Submit(c.Request.Context(), SubmitInput{
		BusinessName: validation.SanitizeString(req.BusinessName, 200),
		ContactName:  validation.SanitizeString(req.ContactName, 200),
		Email:        req.Email,
		BookingLink:  req.BookingLink,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"intake": r})
}

// List handles GET /v1/admin/intakes with an optional ?status=new filter.
func (h *Handler) List(c *gin.Context) {
	var (
		requests []*Request
		err      error
	)
	switch c.Query("status") {
	case "":
		requests, err = h.service.List(c.Request.Context(), 100)
	case string(StatusNew):
		requests, err = h.service.ListPending(c.Request.Context(), 100)
	case string(StatusApproved):
		requests, err = h.service.store.ListByStatus(c.Request.Context(), StatusApproved, 100)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_status",
			"message": "status must be new or approved",
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
		"intakes": requests,
		"count":   len(requests),
	})
}

// Get handles GET /v1/admin/intakes/:id
func (h *Handler) Get(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == ErrIntakeNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No intake request with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"intake": r})
}

// Approve handles POST /v1/admin/intakes/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	r, cl, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch err {
		case ErrIntakeNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No intake request with this id",
			})
		case ErrAlreadyApproved:
			c.JSON(http.StatusConflict, gin.H{
				"error":   "already_approved",
				"message": "This intake request has already been approved",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": err.Error(),
			})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"intake": r,
		"client": cl,
	})
}
