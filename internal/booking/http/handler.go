package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/auth"
	"github.com/peerseeker/peerseeker-backend/internal/booking"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/request"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/response"
	"github.com/peerseeker/peerseeker-backend/internal/user"
)

type Handler struct {
	service booking.Service
	logger  *zap.Logger
}

func NewHandler(service booking.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create books a tutoring session. Students only; the session starts pending.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := booking.CreateRequest{
		TutorID:  body.TutorID,
		Duration: body.Duration,
		Message:  body.Message,
	}
	if body.Date != nil {
		req.Date = *body.Date
	}

	b, err := h.service.Create(
		c.Request.Context(),
		auth.GetUserID(c),
		user.Role(auth.GetUserRole(c)),
		req,
	)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// ListMine returns the caller's bookings, ordered by ascending date and
// enriched with the counterpart's summary.
func (h *Handler) ListMine(c *gin.Context) {
	bookings, err := h.service.ListMine(
		c.Request.Context(),
		auth.GetUserID(c),
		user.Role(auth.GetUserRole(c)),
	)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, items)
}

// Update edits a pending booking. Only the owning student may edit.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var body UpdateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), uri.ID, booking.UpdateRequest{
		Date:     body.Date,
		Duration: body.Duration,
		Message:  body.Message,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Transition lets the target tutor confirm or reject a booking.
func (h *Handler) Transition(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var body TransitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.TransitionStatus(c.Request.Context(), auth.GetUserID(c), uri.ID, body.Status)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel soft-cancels the caller's booking; the record is kept.
func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
