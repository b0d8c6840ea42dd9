package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lambda-router/internal/middleware"
	"lambda-router/pkg/lambda"
)

// Cookie names set by CreateSession
const (
	SessionCookie  = "session_id"
	UsernameCookie = "username"
)

// AppHandler serves the application routes rendered behind the lambda adapter
type AppHandler struct {
	sessionTTL time.Duration
	pixel      []byte
}

// NewAppHandler creates a new application handler
func NewAppHandler(sessionTTL time.Duration) *AppHandler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AppHandler{
		sessionTTL: sessionTTL,
		pixel:      transparentPixel(),
	}
}

// EchoResponse describes the request as the framework received it
type EchoResponse struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Path        string            `json:"path"`
	Query       map[string]string `json:"query"`
	ClientIP    string            `json:"client_ip"`
	Cookies     map[string]string `json:"cookies"`
	Mode        string            `json:"mode"`
	RequestID   string            `json:"request_id,omitempty"`
	LoadContext map[string]any    `json:"load_context,omitempty"`
	Body        string            `json:"body,omitempty"`
}

// @Summary Echo request
// @Description Echo the translated request back to the caller
// @Tags diagnostics
// @Produce json
// @Success 200 {object} EchoResponse
// @Router /echo [get]
// @Router /echo [post]
func (h *AppHandler) Echo(c *gin.Context) {
	ctx := c.Request.Context()

	query := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		query[key] = values[0]
	}

	cookies := make(map[string]string)
	for _, cookie := range c.Request.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	requestID, _ := ctx.Value(middleware.RequestIDKey).(string)

	c.JSON(http.StatusOK, EchoResponse{
		Method:      c.Request.Method,
		URL:         c.Request.URL.String(),
		Path:        c.Request.URL.Path,
		Query:       query,
		ClientIP:    c.ClientIP(),
		Cookies:     cookies,
		Mode:        lambda.ModeFrom(ctx),
		RequestID:   requestID,
		LoadContext: lambda.LoadContext(ctx),
		Body:        string(body),
	})
}

// CreateSessionRequest represents the session request body
type CreateSessionRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Theme    string `json:"theme" binding:"omitempty,oneof=light dark"`
}

// SessionResponse represents a created session
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// @Summary Create session
// @Description Validate the caller's details and set session cookies
// @Tags session
// @Accept json
// @Produce json
// @Param session body CreateSessionRequest true "Session data"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Router /session [post]
func (h *AppHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	sessionID := uuid.New().String()
	maxAge := int(h.sessionTTL.Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, maxAge, "/", "", true, true)
	c.SetCookie(UsernameCookie, req.Username, maxAge, "/", "", true, false)

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: sessionID,
		Username:  req.Username,
		Email:     req.Email,
		ExpiresAt: time.Now().Add(h.sessionTTL),
	})
}

// @Summary Tracking pixel
// @Description A 1x1 transparent PNG, returned base64 encoded through the gateway
// @Tags diagnostics
// @Produce png
// @Success 200 {file} binary
// @Router /assets/pixel.png [get]
func (h *AppHandler) Pixel(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", h.pixel)
}

func transparentPixel() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
