package user

import (
	"errors"
	"net/http"

	"examprep/internal/api"
	"examprep/internal/auth"
	"examprep/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register new user
// @Description  Creates a student account and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User registration data"
// @Success      201      {object}  AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, tokens, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			api.Error(c, http.StatusConflict, api.CodeConflict, "Email already registered")
			return
		}
		logger.Error("register failed", "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to create user")
		return
	}

	logger.Info("user registered", "user_id", u.ID)
	c.JSON(http.StatusCreated, AuthResponse{TokenPair: *tokens, User: u})
}

// Login godoc
// @Summary      Login user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "User credentials"
// @Success      200      {object}  AuthResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Invalid email or password")
			return
		}
		logger.Error("login failed", "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Login failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{TokenPair: *tokens, User: u})
}

// GetMe godoc
// @Summary      Get current user
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "User not authenticated")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "User not found")
			return
		}
		logger.Error("load current user failed", "user_id", userID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, u)
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token payload"
// @Success      200      {object}  RefreshResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	access, u, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "user not found")
		case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType):
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "invalid or expired refresh token")
		default:
			logger.Error("refresh token failed", "error", err)
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: access, User: u})
}
