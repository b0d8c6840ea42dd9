package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lambda-router/internal/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *middleware.AuthService
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *middleware.AuthService, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
	}
}

// TokenResponse represents an issued token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo represents user information
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	IsAdmin  bool     `json:"is_admin"`
}

// TokenRequest carries a token to refresh or validate
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// IssueDevToken issues a demo token, admin unless ?role= names another
// role. Development only.
func (h *AuthHandler) IssueDevToken(c *gin.Context) {
	role, ok := middleware.ParseRole(c.DefaultQuery("role", string(middleware.RoleAdmin)))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid role",
			Message: "role must be one of: admin operator viewer",
		})
		return
	}

	user := UserInfo{
		ID:       "demo-user",
		Username: "demo",
		Email:    "demo@example.com",
		Roles:    []string{string(role)},
		IsAdmin:  role == middleware.RoleAdmin,
	}

	token, err := h.authService.GenerateToken(user.ID, user.Username, user.Email, user.Roles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenTTL),
		User:      user,
	})
}

// @Summary Refresh Token
// @Description Refresh an existing JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body TokenRequest true "Token to refresh"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	newToken, err := h.authService.RefreshToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Invalid or expired token",
			Message: err.Error(),
		})
		return
	}

	claims, err := h.authService.ValidateToken(newToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to validate new token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     newToken,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      userFromClaims(claims),
	})
}

// @Summary Validate Token
// @Description Validate a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body TokenRequest true "Token to validate"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/validate [post]
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	claims, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Invalid or expired token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"user":       userFromClaims(claims),
		"expires_at": claims.ExpiresAt.Time,
	})
}

// @Summary Get Current User
// @Description Get information about the caller authenticated by the router
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "No authenticated user",
		})
		return
	}

	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	c.JSON(http.StatusOK, UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
		IsAdmin:  middleware.IsAdmin(c.Request.Context()),
	})
}

func userFromClaims(claims *middleware.Claims) UserInfo {
	user := UserInfo{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    claims.Roles,
	}
	for _, role := range claims.Roles {
		if role == string(middleware.RoleAdmin) {
			user.IsAdmin = true
		}
	}
	return user
}
