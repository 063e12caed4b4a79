package user

import (
	"errors"
	"time"
)

// Role determines whether a user offers tutoring or looks for it.
// The two roles are mutually exclusive.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

// Opposite returns the counterpart role.
func (r Role) Opposite() Role {
	if r == RoleStudent {
		return RoleTutor
	}
	return RoleStudent
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("name, email, password, and role are required")
	ErrInvalidRole        = errors.New("invalid role selected")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrBioTooLong         = errors.New("bio must be at most 500 characters")
	ErrSkillsTutorOnly    = errors.New("skills can only be set on tutor profiles")
	ErrHelpNeededStudents = errors.New("help topics can only be set on student profiles")
	ErrAvatarNotFound     = errors.New("avatar not found")
	ErrUnsupportedImage   = errors.New("unsupported image format")
)

// User represents a member of the marketplace. A single record covers both
// roles; Skills is tutor-only and HelpNeeded student-only.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	Course       *string
	Year         *string
	Bio          *string
	Skills       []string
	HelpNeeded   []string
	AvatarPath   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines filter options for directory listings.
type Filter struct {
	Role      Role
	Skill     string // tutors offering this skill
	HelpTopic string // students asking for this topic

	Page     int
	PageSize int
}

// DefaultPageSize is the page size used when the caller does not specify one.
const DefaultPageSize = 20
