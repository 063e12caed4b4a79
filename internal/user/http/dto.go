package http

import (
	"time"
	"unicode/utf8"

	"github.com/peerseeker/peerseeker-backend/internal/pkg/request"
	"github.com/peerseeker/peerseeker-backend/internal/user"
)

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	Role       string   `json:"role" binding:"required,oneof=student tutor"`
	Course     *string  `json:"course"`
	Year       *string  `json:"year"`
	Bio        *string  `json:"bio"`
	Skills     []string `json:"skills"`
	HelpNeeded []string `json:"help_needed"`
}

// Validate performs custom validation for RegisterRequest.
func (r *RegisterRequest) Validate() error {
	if r.Bio != nil && utf8.RuneCountInString(*r.Bio) > 500 {
		return user.ErrBioTooLong
	}
	return nil
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest defines fields allowed to be updated via PATCH /me.
// Pointers distinguish between "field not sent" and "field sent empty".
type UpdateProfileRequest struct {
	Name       *string   `json:"name"`
	Course     *string   `json:"course"`
	Year       *string   `json:"year"`
	Bio        *string   `json:"bio"`
	Skills     *[]string `json:"skills"`
	HelpNeeded *[]string `json:"help_needed"`
}

// ListTutorsRequest defines query parameters for the tutor directory.
type ListTutorsRequest struct {
	request.ListParams
	Skill string `form:"skill"`
}

// ListStudentsRequest defines query parameters for the student directory.
type ListStudentsRequest struct {
	request.ListParams
	HelpTopic string `form:"help_needed"`
}

// UserResponse is the shape of user data returned in API responses.
// The password hash is never part of it.
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Course     *string   `json:"course"`
	Year       *string   `json:"year"`
	Bio        *string   `json:"bio"`
	Skills     []string  `json:"skills"`
	HelpNeeded []string  `json:"help_needed"`
	AvatarURL  *string   `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse converts a domain user.User to the API representation.
func NewUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Course:     u.Course,
		Year:       u.Year,
		Bio:        u.Bio,
		Skills:     u.Skills,
		HelpNeeded: u.HelpNeeded,
		CreatedAt:  u.CreatedAt,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if resp.HelpNeeded == nil {
		resp.HelpNeeded = []string{}
	}
	if u.AvatarPath != nil {
		url := "/v1/users/" + u.ID + "/avatar"
		resp.AvatarURL = &url
	}
	return resp
}

// LoginResponse returns the token and user info.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MeResponse returns a single user profile.
type MeResponse struct {
	User UserResponse `json:"user"`
}
