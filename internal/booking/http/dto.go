package http

import (
	"time"

	"github.com/peerseeker/peerseeker-backend/internal/booking"
)

type CreateBookingBody struct {
	TutorID  string     `json:"tutor_id" binding:"required,uuid"`
	Date     *time.Time `json:"date" binding:"required"`
	Duration int        `json:"duration" binding:"required"`
	Message  *string    `json:"message"`
}

// UpdateBookingBody is a partial patch; absent fields stay unchanged.
type UpdateBookingBody struct {
	Date     *time.Time `json:"date"`
	Duration *int       `json:"duration"`
	Message  *string    `json:"message"`
}

type TransitionBody struct {
	Status string `json:"status" binding:"required"`
}

// ParticipantResponse is the counterpart summary embedded in a booking.
// Skills is populated for tutors, help_needed for students.
type ParticipantResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Course     *string  `json:"course"`
	Year       *string  `json:"year"`
	Skills     []string `json:"skills,omitempty"`
	HelpNeeded []string `json:"help_needed,omitempty"`
}

type BookingResponse struct {
	ID        string              `json:"id"`
	Student   ParticipantResponse `json:"student"`
	Tutor     ParticipantResponse `json:"tutor"`
	Date      time.Time           `json:"date"`
	Duration  int                 `json:"duration"`
	Message   *string             `json:"message"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func newParticipantResponse(p booking.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:         p.ID,
		Name:       p.Name,
		Course:     p.Course,
		Year:       p.Year,
		Skills:     p.Skills,
		HelpNeeded: p.HelpNeeded,
	}
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Student:   newParticipantResponse(b.Student),
		Tutor:     newParticipantResponse(b.Tutor),
		Date:      b.Date,
		Duration:  b.Duration,
		Message:   b.Message,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
