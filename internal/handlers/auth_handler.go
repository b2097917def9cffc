package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/auth"
	"github.com/sanctuary/backend/internal/gate"
	"github.com/sanctuary/backend/internal/middleware"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
	"github.com/sanctuary/backend/internal/repository"
)

type AuthHandler struct {
	userRepo     UserStore
	jwtService   *auth.JWTService
	throttle     Throttle
	secureCookie bool
}

func NewAuthHandler(userRepo UserStore, jwtService *auth.JWTService, throttle Throttle, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		jwtService:   jwtService,
		throttle:     throttle,
		secureCookie: secureCookie,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// Self-registered accounts are always members
	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		DisplayName:  req.DisplayName,
		AvatarURL:    req.AvatarURL,
		PasswordHash: hashedPassword,
		Role:         models.RoleMember,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := user.Validate(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			ErrorResponse(c, http.StatusConflict, "Email already registered")
			return
		}
		storeError(c, err, "User not found", "Failed to create user")
		return
	}

	h.issue(c, http.StatusCreated, user)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(req.Email)
	logger := applog.Ctx(c.Request.Context())

	if h.throttle != nil {
		allowed, err := h.throttle.Allow(email)
		if err != nil {
			logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			c.Header("Retry-After", "60")
			ErrorResponse(c, http.StatusTooManyRequests, "Too many login attempts")
			return
		}
	}

	// Get user by email
	user, err := h.userRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msg("user lookup failed")
		}
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Check password
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.issue(c, http.StatusOK, user)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// GetMe returns the current user
func (h *AuthHandler) GetMe(c *gin.Context) {
	uid, _ := middleware.GetUserID(c)

	user, err := h.userRepo.GetByID(uid)
	if err != nil {
		storeError(c, err, "User not found", "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the caller's display name or avatar
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	uid, _ := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(uid)
	if err != nil {
		storeError(c, err, "User not found", "Failed to load user")
		return
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if err := user.Validate(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user.UpdatedAt = time.Now()
	if err := h.userRepo.Update(user); err != nil {
		storeError(c, err, "User not found", "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Session reports the caller's session snapshot and what the admin gate
// would do with ?path=.
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.GetSession(c)
	path := c.DefaultQuery("path", gate.DefaultReturnPath)
	d := gate.Admit(session, path)

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"decision": models.WSSessionPayload{
			Decision: d.Kind.String(),
			Target:   d.Target,
		},
	})
}

func (h *AuthHandler) issue(c *gin.Context, status int, user *models.User) {
	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.jwtService.Expiry().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(status, models.LoginResponse{
		Token: token,
		User:  *user,
	})
}
