package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/auth"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/request"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/response"
	"github.com/peerseeker/peerseeker-backend/internal/user"
)

// maxAvatarBytes bounds avatar upload size.
const maxAvatarBytes = 5 << 20

type UserHandler struct {
	userService user.Service
	jwtManager  *auth.JWTManager
	logger      *zap.Logger
}

func NewUserHandler(userService user.Service, jwtManager *auth.JWTManager, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// Register handles the user registration process.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterRequest{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       user.Role(req.Role),
		Course:     req.Course,
		Year:       req.Year,
		Bio:        req.Bio,
		Skills:     req.Skills,
		HelpNeeded: req.HelpNeeded,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, user.ErrMissingFields),
			errors.Is(err, user.ErrInvalidRole),
			errors.Is(err, user.ErrPasswordTooShort),
			errors.Is(err, user.ErrBioTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, MeResponse{User: NewUserResponse(u)})
}

// Login authenticates a user using email and password.
// On success, it returns a JWT access token and the user profile.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	u, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrNotFound):
			// Do not reveal which condition failed
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

// Me retrieves the profile of the currently authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			// Token subject no longer exists.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		default:
			h.logger.Error("get current user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		}
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// UpdateMe applies a partial update to the caller's own profile.
// Role and password cannot be changed here.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, user.UpdateProfileRequest{
		Name:       body.Name,
		Course:     body.Course,
		Year:       body.Year,
		Bio:        body.Bio,
		Skills:     body.Skills,
		HelpNeeded: body.HelpNeeded,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, user.ErrMissingFields),
			errors.Is(err, user.ErrBioTooLong),
			errors.Is(err, user.ErrSkillsTutorOnly),
			errors.Is(err, user.ErrHelpNeededStudents):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("profile update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// UploadAvatar accepts a multipart image, normalizes it and stores it as the
// caller's avatar.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file too large"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}
	defer src.Close()

	u, err := h.userService.UpdateAvatar(c.Request.Context(), userID, src)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, user.ErrUnsupportedImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("avatar upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store avatar"})
		}
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// GetAvatar serves a user's stored avatar.
func (h *UserHandler) GetAvatar(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	content, err := h.userService.GetAvatar(c.Request.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound), errors.Is(err, user.ErrAvatarNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "avatar not found"})
		default:
			h.logger.Error("avatar read failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read avatar"})
		}
		return
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		h.logger.Error("avatar read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read avatar"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// Get retrieves a user's public profile by ID.
func (h *UserHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logger.Error("get user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		}
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// ListTutors returns the paginated tutor directory.
func (h *UserHandler) ListTutors(c *gin.Context) {
	var req ListTutorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	h.listDirectory(c, user.Filter{
		Role:     user.RoleTutor,
		Skill:    req.Skill,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// ListStudents returns the paginated student directory.
func (h *UserHandler) ListStudents(c *gin.Context) {
	var req ListStudentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	h.listDirectory(c, user.Filter{
		Role:      user.RoleStudent,
		HelpTopic: req.HelpTopic,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
}

func (h *UserHandler) listDirectory(c *gin.Context, filter user.Filter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = user.DefaultPageSize
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("directory listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}
