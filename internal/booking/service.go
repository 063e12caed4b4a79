package booking

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/peerseeker/peerseeker-backend/internal/user"
)

type CreateRequest struct {
	TutorID  string
	Date     time.Time
	Duration int
	Message  *string
}

// UpdateRequest is a partial patch; nil fields are left unchanged.
type UpdateRequest struct {
	Date     *time.Time
	Duration *int
	Message  *string
}

// Directory is the slice of the user module the booking service needs.
type Directory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Service is the booking workflow: students create and edit pending requests,
// tutors confirm or reject them, either side ends up with a shared history.
type Service interface {
	Create(ctx context.Context, callerID string, callerRole user.Role, req CreateRequest) (*Booking, error)
	ListMine(ctx context.Context, callerID string, callerRole user.Role) ([]*Booking, error)
	Update(ctx context.Context, callerID, bookingID string, req UpdateRequest) (*Booking, error)
	TransitionStatus(ctx context.Context, callerID, bookingID, newStatus string) (*Booking, error)
	Cancel(ctx context.Context, callerID, bookingID string) (*Booking, error)
}

type service struct {
	repo  Repository
	users Directory
	now   func() time.Time
}

func NewService(repo Repository, users Directory) Service {
	return &service{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// statusAliases maps accepted transition spellings onto canonical statuses.
// Immutable; consulted only by TransitionStatus.
var statusAliases = map[string]Status{
	"confirmed": StatusConfirmed,
	"accepted":  StatusConfirmed,
	"cancelled": StatusCancelled,
	"rejected":  StatusCancelled,
	"declined":  StatusCancelled,
}

func (s *service) Create(ctx context.Context, callerID string, callerRole user.Role, req CreateRequest) (*Booking, error) {
	if callerRole != user.RoleStudent {
		return nil, ErrStudentsOnly
	}
	if req.TutorID == "" || req.Date.IsZero() || req.Duration == 0 {
		return nil, ErrMissingFields
	}
	if err := validateSlot(req.Date, req.Duration, req.Message, s.now()); err != nil {
		return nil, err
	}

	// The tutor must exist and actually be a tutor.
	tutor, err := s.users.GetByID(ctx, req.TutorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	if tutor.Role != user.RoleTutor {
		return nil, ErrTutorNotFound
	}

	// Friendly pre-check; the unique slot index is the real guarantee and
	// Create maps its violation to the same error.
	conflict, err := s.repo.HasConflict(ctx, req.TutorID, req.Date, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	b := &Booking{
		StudentID: callerID,
		TutorID:   req.TutorID,
		Date:      req.Date,
		Duration:  req.Duration,
		Message:   req.Message,
		Status:    StatusPending,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// Re-read for the enriched participant summaries.
	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) ListMine(ctx context.Context, callerID string, callerRole user.Role) ([]*Booking, error) {
	switch callerRole {
	case user.RoleStudent:
		return s.repo.List(ctx, Filter{StudentID: callerID})
	case user.RoleTutor:
		return s.repo.List(ctx, Filter{TutorID: callerID})
	default:
		return nil, ErrAccessDenied
	}
}

func (s *service) Update(ctx context.Context, callerID, bookingID string, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.StudentID != callerID {
		return nil, ErrNotOwner
	}
	if b.Status != StatusPending {
		return nil, ErrNotPending
	}

	newDate := b.Date
	newDuration := b.Duration
	newMessage := b.Message

	if req.Date != nil {
		newDate = *req.Date
	}
	if req.Duration != nil {
		newDuration = *req.Duration
	}
	if req.Message != nil {
		newMessage = req.Message
	}

	// Every provided field is held to the same constraints as creation.
	if err := validateSlot(newDate, newDuration, newMessage, s.now()); err != nil {
		return nil, err
	}

	if req.Date != nil && !newDate.Equal(b.Date) {
		conflict, err := s.repo.HasConflict(ctx, b.TutorID, newDate, b.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrTimeConflict
		}
	}

	b.Date = newDate
	b.Duration = newDuration
	b.Message = newMessage

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *service) TransitionStatus(ctx context.Context, callerID, bookingID, newStatus string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.TutorID != callerID {
		return nil, ErrNotOwner
	}

	target, ok := statusAliases[newStatus]
	if !ok {
		return nil, ErrInvalidStatus
	}

	// Cancelled is terminal except for idempotent re-cancellation.
	if b.Status == StatusCancelled && target != StatusCancelled {
		return nil, ErrCancelledFinal
	}

	b.Status = target
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, callerID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.StudentID != callerID {
		return nil, ErrNotOwner
	}

	// Soft-cancel: the row stays for history and the slot becomes free,
	// since the conflict check ignores cancelled bookings.
	b.Status = StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// validateSlot enforces the creation-time constraints on a booking slot.
func validateSlot(date time.Time, duration int, message *string, now time.Time) error {
	if !date.After(now) {
		return ErrDateNotFuture
	}
	if duration < MinDurationMinutes || duration > MaxDurationMinutes {
		return ErrDurationRange
	}
	// Character count, not bytes, matching char_length in the slot table.
	if message != nil && utf8.RuneCountInString(*message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
