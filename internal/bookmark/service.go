package bookmark

import (
	"context"
	"errors"
	"net/http"

	"github.com/peerseeker/peerseeker-backend/internal/pkg/apperror"
	"github.com/peerseeker/peerseeker-backend/internal/user"
)

// ErrTargetNotFound covers both a missing target and a same-role target;
// the caller cannot tell the two apart.
var ErrTargetNotFound = apperror.New(http.StatusNotFound, "user to bookmark not found")

// Directory is the slice of the user module the bookmark service needs.
type Directory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Service toggles and lists the symmetric save-for-later relation:
// students save tutors, tutors save students.
type Service interface {
	// Toggle adds the bookmark if absent and removes it if present.
	// It reports whether the bookmark exists after the call.
	Toggle(ctx context.Context, callerID, targetID string) (bool, error)
	ListSaved(ctx context.Context, callerID string) ([]*user.User, error)
}

type service struct {
	repo  Repository
	users Directory
}

func NewService(repo Repository, users Directory) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func (s *service) Toggle(ctx context.Context, callerID, targetID string) (bool, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return false, err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, ErrTargetNotFound
		}
		return false, err
	}

	// Only counterpart profiles can be saved; a same-role target is
	// indistinguishable from a missing one to the caller.
	if target.Role != caller.Role.Opposite() {
		return false, ErrTargetNotFound
	}

	exists, err := s.repo.Exists(ctx, callerID, targetID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.repo.Remove(ctx, callerID, targetID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.Add(ctx, callerID, targetID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) ListSaved(ctx context.Context, callerID string) ([]*user.User, error) {
	return s.repo.ListSaved(ctx, callerID)
}
