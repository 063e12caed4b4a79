package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/peerseeker/peerseeker-backend/internal/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Booking), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) HasConflict(ctx context.Context, tutorID string, date time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, tutorID, date, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository, users Directory) *service {
	return &service{
		repo:  repo,
		users: users,
		now:   func() time.Time { return testNow },
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	slot := testNow.Add(48 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		dir := new(MockDirectory)
		svc := newTestService(repo, dir)

		dir.On("GetByID", ctx, "tutor-1").Return(&user.User{ID: "tutor-1", Role: user.RoleTutor}, nil)
		repo.On("HasConflict", ctx, "tutor-1", slot, "").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).Run(func(args mock.Arguments) {
			b := args.Get(1).(*Booking)
			assert.Equal(t, StatusPending, b.Status, "new bookings start pending")
			b.ID = "booking-1"
		}).Return(nil)
		repo.On("GetByID", ctx, "booking-1").Return(&Booking{ID: "booking-1", Status: StatusPending}, nil)

		b, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     slot,
			Duration: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, "booking-1", b.ID)
		repo.AssertExpectations(t)
		dir.AssertExpectations(t)
	})

	t.Run("Tutor Cannot Book", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockDirectory))

		_, err := svc.Create(ctx, "tutor-1", user.RoleTutor, CreateRequest{
			TutorID:  "tutor-2",
			Date:     slot,
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrStudentsOnly)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockDirectory))

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{Date: slot, Duration: 60})
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("Date Not In Future", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockDirectory))

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     testNow.Add(-time.Hour),
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrDateNotFuture)

		// Exactly now is not strictly in the future either.
		_, err = svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     testNow,
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrDateNotFuture)
	})

	t.Run("Duration Bounds", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockDirectory))

		for _, duration := range []int{29, 181} {
			_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
				TutorID:  "tutor-1",
				Date:     slot,
				Duration: duration,
			})
			assert.ErrorIs(t, err, ErrDurationRange, "duration %d should be rejected", duration)
		}

		for _, duration := range []int{30, 180} {
			repo := new(MockRepository)
			dir := new(MockDirectory)
			svc := newTestService(repo, dir)

			dir.On("GetByID", ctx, "tutor-1").Return(&user.User{ID: "tutor-1", Role: user.RoleTutor}, nil)
			repo.On("HasConflict", ctx, "tutor-1", slot, "").Return(false, nil)
			repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)
			repo.On("GetByID", ctx, mock.Anything).Return(&Booking{Status: StatusPending}, nil)

			_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
				TutorID:  "tutor-1",
				Date:     slot,
				Duration: duration,
			})
			assert.NoError(t, err, "duration %d should be accepted", duration)
		}
	})

	t.Run("Message Too Long", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockDirectory))

		msg := strings.Repeat("a", MaxMessageLength+1)

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     slot,
			Duration: 60,
			Message:  &msg,
		})
		assert.ErrorIs(t, err, ErrMessageTooLong)
	})

	t.Run("Message Length Counts Characters", func(t *testing.T) {
		repo := new(MockRepository)
		dir := new(MockDirectory)
		svc := newTestService(repo, dir)

		dir.On("GetByID", ctx, "tutor-1").Return(&user.User{ID: "tutor-1", Role: user.RoleTutor}, nil)
		repo.On("HasConflict", ctx, "tutor-1", slot, "").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)
		repo.On("GetByID", ctx, mock.Anything).Return(&Booking{Status: StatusPending}, nil)

		// 200 two-byte characters: within the limit even though the byte
		// count is not.
		msg := strings.Repeat("é", 200)

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     slot,
			Duration: 60,
			Message:  &msg,
		})
		assert.NoError(t, err)

		tooLong := strings.Repeat("é", MaxMessageLength+1)
		_, err = svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     slot,
			Duration: 60,
			Message:  &tooLong,
		})
		assert.ErrorIs(t, err, ErrMessageTooLong)
	})

	t.Run("Tutor Not Found", func(t *testing.T) {
		repo := new(MockRepository)
		dir := new(MockDirectory)
		svc := newTestService(repo, dir)

		dir.On("GetByID", ctx, "ghost").Return(nil, user.ErrNotFound)

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "ghost",
			Date:     slot,
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrTutorNotFound)
	})

	t.Run("Target Is Not A Tutor", func(t *testing.T) {
		repo := new(MockRepository)
		dir := new(MockDirectory)
		svc := newTestService(repo, dir)

		dir.On("GetByID", ctx, "student-2").Return(&user.User{ID: "student-2", Role: user.RoleStudent}, nil)

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "student-2",
			Date:     slot,
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrTutorNotFound)
	})

	t.Run("Slot Conflict", func(t *testing.T) {
		repo := new(MockRepository)
		dir := new(MockDirectory)
		svc := newTestService(repo, dir)

		dir.On("GetByID", ctx, "tutor-1").Return(&user.User{ID: "tutor-1", Role: user.RoleTutor}, nil)
		repo.On("HasConflict", ctx, "tutor-1", slot, "").Return(true, nil)

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     slot,
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrTimeConflict)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Conflict From Unique Index", func(t *testing.T) {
		// The pre-check can miss a concurrent insert; the repository then
		// reports the unique violation as the same conflict error.
		repo := new(MockRepository)
		dir := new(MockDirectory)
		svc := newTestService(repo, dir)

		dir.On("GetByID", ctx, "tutor-1").Return(&user.User{ID: "tutor-1", Role: user.RoleTutor}, nil)
		repo.On("HasConflict", ctx, "tutor-1", slot, "").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).Return(ErrTimeConflict)

		_, err := svc.Create(ctx, "student-1", user.RoleStudent, CreateRequest{
			TutorID:  "tutor-1",
			Date:     slot,
			Duration: 60,
		})
		assert.ErrorIs(t, err, ErrTimeConflict)
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()

	t.Run("Student Sees Own Requests", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repo.On("List", ctx, Filter{StudentID: "student-1"}).Return([]*Booking{{ID: "b1"}}, nil)

		list, err := svc.ListMine(ctx, "student-1", user.RoleStudent)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Tutor Sees Incoming Requests", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repo.On("List", ctx, Filter{TutorID: "tutor-1"}).Return([]*Booking{}, nil)

		list, err := svc.ListMine(ctx, "tutor-1", user.RoleTutor)
		require.NoError(t, err)
		assert.Empty(t, list)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown Role", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockDirectory))

		_, err := svc.ListMine(ctx, "someone", user.Role("admin"))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	slot := testNow.Add(48 * time.Hour)

	pending := func() *Booking {
		return &Booking{
			ID:        "booking-1",
			StudentID: "student-1",
			TutorID:   "tutor-1",
			Date:      slot,
			Duration:  60,
			Status:    StatusPending,
		}
	}

	t.Run("Owner Edits Pending", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		newDate := slot.Add(24 * time.Hour)
		newDuration := 90

		repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)
		repo.On("HasConflict", ctx, "tutor-1", newDate, "booking-1").Return(false, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := svc.Update(ctx, "student-1", "booking-1", UpdateRequest{Date: &newDate, Duration: &newDuration})
		require.NoError(t, err)
		assert.True(t, b.Date.Equal(newDate))
		assert.Equal(t, 90, b.Duration)
		assert.Equal(t, StatusPending, b.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Keeping The Date Skips The Conflict Check", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		newDuration := 45

		repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		_, err := svc.Update(ctx, "student-1", "booking-1", UpdateRequest{Duration: &newDuration})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "HasConflict")
	})

	t.Run("Not The Owner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)

		newDuration := 45
		_, err := svc.Update(ctx, "student-2", "booking-1", UpdateRequest{Duration: &newDuration})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("Confirmed Is Not Editable", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		b := pending()
		b.Status = StatusConfirmed
		repo.On("GetByID", ctx, "booking-1").Return(b, nil)

		newDuration := 45
		_, err := svc.Update(ctx, "student-1", "booking-1", UpdateRequest{Duration: &newDuration})
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("New Date Conflicts", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		newDate := slot.Add(24 * time.Hour)

		repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)
		repo.On("HasConflict", ctx, "tutor-1", newDate, "booking-1").Return(true, nil)

		_, err := svc.Update(ctx, "student-1", "booking-1", UpdateRequest{Date: &newDate})
		assert.ErrorIs(t, err, ErrTimeConflict)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("Not Found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repo.On("GetByID", ctx, "ghost").Return(nil, ErrNotFound)

		newDuration := 45
		_, err := svc.Update(ctx, "student-1", "ghost", UpdateRequest{Duration: &newDuration})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransitionStatus(t *testing.T) {
	ctx := context.Background()

	pending := func() *Booking {
		return &Booking{
			ID:        "booking-1",
			StudentID: "student-1",
			TutorID:   "tutor-1",
			Status:    StatusPending,
		}
	}

	t.Run("Status Aliases", func(t *testing.T) {
		cases := map[string]Status{
			"confirmed": StatusConfirmed,
			"accepted":  StatusConfirmed,
			"cancelled": StatusCancelled,
			"rejected":  StatusCancelled,
			"declined":  StatusCancelled,
		}
		for input, want := range cases {
			repo := new(MockRepository)
			svc := newTestService(repo, new(MockDirectory))

			repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)
			repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

			b, err := svc.TransitionStatus(ctx, "tutor-1", "booking-1", input)
			require.NoError(t, err, "alias %q", input)
			assert.Equal(t, want, b.Status, "alias %q", input)
		}
	})

	t.Run("Unknown Status", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)

		_, err := svc.TransitionStatus(ctx, "tutor-1", "booking-1", "pending")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Only The Tutor Transitions", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repo.On("GetByID", ctx, "booking-1").Return(pending(), nil)

		_, err := svc.TransitionStatus(ctx, "student-1", "booking-1", "confirmed")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("Cancelled Is Terminal", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		b := pending()
		b.Status = StatusCancelled
		repo.On("GetByID", ctx, "booking-1").Return(b, nil)

		_, err := svc.TransitionStatus(ctx, "tutor-1", "booking-1", "confirmed")
		assert.ErrorIs(t, err, ErrCancelledFinal)
	})

	t.Run("Re-Cancel Is Idempotent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		b := pending()
		b.Status = StatusCancelled
		repo.On("GetByID", ctx, "booking-1").Return(b, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		got, err := svc.TransitionStatus(ctx, "tutor-1", "booking-1", "rejected")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Student Soft-Cancels", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		b := &Booking{ID: "booking-1", StudentID: "student-1", TutorID: "tutor-1", Status: StatusConfirmed}
		repo.On("GetByID", ctx, "booking-1").Return(b, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		got, err := svc.Cancel(ctx, "student-1", "booking-1")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Only The Student Cancels", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		b := &Booking{ID: "booking-1", StudentID: "student-1", TutorID: "tutor-1", Status: StatusPending}
		repo.On("GetByID", ctx, "booking-1").Return(b, nil)

		_, err := svc.Cancel(ctx, "tutor-1", "booking-1")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("Repository Error Is Propagated", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockDirectory))

		repoErr := errors.New("connection reset")
		repo.On("GetByID", ctx, "booking-1").Return(nil, repoErr)

		_, err := svc.Cancel(ctx, "student-1", "booking-1")
		assert.ErrorIs(t, err, repoErr)
	})
}
