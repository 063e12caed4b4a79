package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/auth"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/storage"
)

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	Role       Role
	Course     *string
	Year       *string
	Bio        *string
	Skills     []string
	HelpNeeded []string
}

// UpdateProfileRequest is a partial profile patch. Role and password are not
// editable through this path. Nil means "leave unchanged".
type UpdateProfileRequest struct {
	Name       *string
	Course     *string
	Year       *string
	Bio        *string
	Skills     *[]string
	HelpNeeded *[]string
}

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error)
	UpdateAvatar(ctx context.Context, id string, content io.Reader) (*User, error)
	GetAvatar(ctx context.Context, id string) (io.ReadCloser, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	cache  DirectoryCache // optional; nil disables directory caching
	store  storage.Storage
	images *storage.ImageProcessor
	logger *zap.Logger

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(
	repo Repository,
	hasher auth.PasswordHasher,
	cache DirectoryCache,
	store storage.Storage,
	images *storage.ImageProcessor,
	logger *zap.Logger,
) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		cache:             cache,
		store:             store,
		images:            images,
		logger:            logger,
		minPasswordLength: 8,
	}
}

const (
	maxBioLength    = 500
	avatarMaxWidth  = 512
	avatarMaxHeight = 512
)

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	cleanEmail := normalizeEmail(req.Email)
	cleanName := strings.TrimSpace(req.Name)

	if cleanName == "" || cleanEmail == "" || req.Password == "" || req.Role == "" {
		return nil, ErrMissingFields
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > maxBioLength {
		return nil, ErrBioTooLong
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Name:         cleanName,
		Email:        cleanEmail,
		PasswordHash: hash,
		Role:         req.Role,
		Course:       trimPtr(req.Course),
		Year:         trimPtr(req.Year),
		Bio:          trimPtr(req.Bio),
		Skills:       []string{},
		HelpNeeded:   []string{},
	}

	// Role-specific attributes are mutually exclusive; the array that does not
	// match the role is dropped silently, matching registration semantics.
	switch req.Role {
	case RoleTutor:
		u.Skills = cleanList(req.Skills)
	case RoleStudent:
		u.HelpNeeded = cleanList(req.HelpNeeded)
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.invalidateDirectory(ctx, u.Role)

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrMissingFields
		}
		u.Name = name
	}
	if req.Course != nil {
		u.Course = trimPtr(req.Course)
	}
	if req.Year != nil {
		u.Year = trimPtr(req.Year)
	}
	if req.Bio != nil {
		if utf8.RuneCountInString(*req.Bio) > maxBioLength {
			return nil, ErrBioTooLong
		}
		u.Bio = trimPtr(req.Bio)
	}
	if req.Skills != nil {
		if u.Role != RoleTutor {
			return nil, ErrSkillsTutorOnly
		}
		u.Skills = cleanList(*req.Skills)
	}
	if req.HelpNeeded != nil {
		if u.Role != RoleStudent {
			return nil, ErrHelpNeededStudents
		}
		u.HelpNeeded = cleanList(*req.HelpNeeded)
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	s.invalidateDirectory(ctx, u.Role)

	return u, nil
}

func (s *service) UpdateAvatar(ctx context.Context, id string, content io.Reader) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized, err := s.images.Normalize(content, avatarMaxWidth, avatarMaxHeight)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	path := id + ".jpg"
	if err := s.store.Save(ctx, path, normalized); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.repo.UpdateAvatar(ctx, id, path); err != nil {
		return nil, err
	}
	u.AvatarPath = &path

	s.invalidateDirectory(ctx, u.Role)

	return u, nil
}

func (s *service) GetAvatar(ctx context.Context, id string) (io.ReadCloser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.AvatarPath == nil {
		return nil, ErrAvatarNotFound
	}
	return s.store.Get(ctx, *u.AvatarPath)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	if s.cacheable(filter) {
		users, total, err := s.cache.GetTutorPage(ctx)
		if err != nil {
			s.logger.Warn("directory cache read failed", zap.Error(err))
		} else if users != nil {
			return users, total, nil
		}
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cacheable(filter) {
		if err := s.cache.SetTutorPage(ctx, stripSecrets(users), total); err != nil {
			s.logger.Warn("directory cache write failed", zap.Error(err))
		}
	}

	return users, total, nil
}

// cacheable limits caching to the default first page of the tutor directory.
func (s *service) cacheable(filter Filter) bool {
	return s.cache != nil &&
		filter.Role == RoleTutor &&
		filter.Skill == "" &&
		filter.HelpTopic == "" &&
		filter.Page <= 1 &&
		(filter.PageSize == 0 || filter.PageSize == DefaultPageSize)
}

func (s *service) invalidateDirectory(ctx context.Context, role Role) {
	if s.cache == nil || role != RoleTutor {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("directory cache invalidation failed", zap.Error(err))
	}
}

// stripSecrets returns copies safe to serialize outside the process.
func stripSecrets(users []*User) []*User {
	out := make([]*User, len(users))
	for i, u := range users {
		copied := *u
		copied.PasswordHash = ""
		out[i] = &copied
	}
	return out
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// cleanList trims entries and drops empties, never returning nil.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}
