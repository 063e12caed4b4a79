package booking

import (
	"net/http"
	"time"

	"github.com/peerseeker/peerseeker-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "booking not found")
	ErrStudentsOnly   = apperror.New(http.StatusForbidden, "only students can book sessions")
	ErrAccessDenied   = apperror.New(http.StatusForbidden, "access denied")
	ErrNotOwner       = apperror.New(http.StatusForbidden, "unauthorized action")
	ErrTutorNotFound  = apperror.New(http.StatusNotFound, "tutor not found")
	ErrTimeConflict   = apperror.New(http.StatusConflict, "tutor already has a booking at this time")
	ErrMissingFields  = apperror.New(http.StatusBadRequest, "tutor, date, and duration are required")
	ErrDateNotFuture  = apperror.New(http.StatusBadRequest, "booking date must be in the future")
	ErrDurationRange  = apperror.New(http.StatusBadRequest, "duration must be between 30 and 180 minutes")
	ErrMessageTooLong = apperror.New(http.StatusBadRequest, "message must be at most 300 characters")
	ErrInvalidStatus  = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrNotPending     = apperror.New(http.StatusConflict, "cannot edit a non-pending booking")
	ErrCancelledFinal = apperror.New(http.StatusConflict, "cancelled bookings cannot be reopened")
)

// Status is the lifecycle state of a booking.
// pending -> confirmed and pending/confirmed -> cancelled are the only moves;
// there is no way back to pending.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 180
	MaxMessageLength   = 300
)

// Participant is the read-only counterpart summary attached to a booking
// for display purposes.
type Participant struct {
	ID         string
	Name       string
	Course     *string
	Year       *string
	Skills     []string
	HelpNeeded []string
}

// Booking is a tutoring session request from a student to a tutor.
// Cancellation is a status transition; rows are never deleted.
type Booking struct {
	ID        string
	StudentID string
	TutorID   string
	Date      time.Time
	Duration  int // minutes
	Message   *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	Student Participant
	Tutor   Participant
}

// Filter selects bookings owned by one side of the relation.
type Filter struct {
	StudentID string
	TutorID   string
}
