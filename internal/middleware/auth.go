package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"lambda-router/pkg/lambda"
)

// UserRole represents user roles in the system
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleViewer   UserRole = "viewer"
)

// ParseRole returns the role named by s
func ParseRole(s string) (UserRole, bool) {
	switch role := UserRole(strings.ToLower(s)); role {
	case RoleAdmin, RoleOperator, RoleViewer:
		return role, true
	default:
		return "", false
	}
}

// Context keys set by the authentication middleware
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	EmailKey    = "email"
	RolesKey    = "roles"
	ClaimsKey   = "claims"
)

// Claims represents JWT claims
type Claims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
	Issuer        string
}

// AuthService handles authentication operations
type AuthService struct {
	config *AuthConfig
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig) *AuthService {
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "lambda-router"
	}
	return &AuthService{config: config}
}

// GenerateToken generates a JWT token for a user
func (a *AuthService) GenerateToken(userID, username, email string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.config.Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(a.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.config.JWTSecret), nil
	}, jwt.WithIssuer(a.config.Issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// RefreshToken generates a new token with extended expiration
func (a *AuthService) RefreshToken(tokenString string) (string, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return "", fmt.Errorf("invalid token for refresh: %w", err)
	}

	return a.GenerateToken(claims.UserID, claims.Username, claims.Email, claims.Roles)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(event *lambda.Event) (string, bool) {
	tokenParts := strings.Split(lambda.HeaderValue(event.Headers, "authorization"), " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		return "", false
	}
	return tokenParts[1], true
}

func storeClaims(ctx *lambda.Context, claims *Claims) {
	ctx.Set(UserIDKey, claims.UserID)
	ctx.Set(UsernameKey, claims.Username)
	ctx.Set(EmailKey, claims.Email)
	ctx.Set(RolesKey, claims.Roles)
	ctx.Set(ClaimsKey, claims)
}

// Authentication requires a valid bearer token on requests whose path starts
// with one of the protected prefixes. Other requests pass through.
func Authentication(authService *AuthService, logger logrus.FieldLogger, protected ...string) lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		if !hasPrefix(event.RawPath, protected) {
			next(nil)
			return
		}

		if lambda.HeaderValue(event.Headers, "authorization") == "" {
			next(Abort(ctx, http.StatusUnauthorized, "Unauthorized", "Authorization header is required"))
			return
		}

		tokenString, ok := bearerToken(event)
		if !ok {
			next(Abort(ctx, http.StatusUnauthorized, "Unauthorized", "Invalid authorization header format. Expected: Bearer <token>"))
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"error":      err.Error(),
				"path":       event.RawPath,
				"request_id": ctx.GetString(RequestIDKey),
			}).Warn("Token validation failed")

			next(Abort(ctx, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token"))
			return
		}

		storeClaims(ctx, claims)

		logger.WithFields(logrus.Fields{
			"user_id":  claims.UserID,
			"username": claims.Username,
			"path":     event.RawPath,
		}).Debug("User authenticated successfully")

		next(nil)
	}
}

// OptionalAuthentication stores the caller's identity when a valid bearer
// token is present and never rejects a request
func OptionalAuthentication(authService *AuthService) lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		if tokenString, ok := bearerToken(event); ok {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				storeClaims(ctx, claims)
			}
		}
		next(nil)
	}
}

// Authorization requires one of the given roles on requests under prefix.
// It must run after Authentication.
func Authorization(prefix string, requiredRoles ...string) lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		if len(requiredRoles) == 0 || !strings.HasPrefix(event.RawPath, prefix) {
			next(nil)
			return
		}

		if !HasAnyRole(ctx, requiredRoles...) {
			next(Abort(ctx, http.StatusForbidden, "Forbidden", "Insufficient permissions"))
			return
		}

		next(nil)
	}
}

// User is the authenticated caller
type User struct {
	ID       string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// GetUser extracts the authenticated user from the router context or any
// context derived from it, such as a framework request's context
func GetUser(ctx context.Context) (*User, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return nil, false
	}

	username, _ := ctx.Value(UsernameKey).(string)
	email, _ := ctx.Value(EmailKey).(string)
	roles, _ := ctx.Value(RolesKey).([]string)

	return &User{ID: userID, Username: username, Email: email, Roles: roles}, true
}

// HasAnyRole checks if the current user has at least one of the roles
func HasAnyRole(ctx context.Context, roles ...string) bool {
	user, ok := GetUser(ctx)
	if !ok {
		return false
	}

	for _, role := range roles {
		for _, userRole := range user.Roles {
			if userRole == role {
				return true
			}
		}
	}
	return false
}

// IsAdmin checks if the current user has admin role
func IsAdmin(ctx context.Context) bool {
	return HasAnyRole(ctx, string(RoleAdmin))
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
