package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambda-router/internal/middleware"
	"lambda-router/pkg/lambda"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) (*gin.Engine, *middleware.AuthService) {
	t.Helper()

	authService := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
	})
	cfg := &RouterConfig{AuthService: authService, TokenTTL: time.Hour, SessionTTL: time.Hour}

	engine := gin.New()
	SetupRoutes(engine, cfg)
	SetupDevelopmentRoutes(engine, cfg)
	return engine, authService
}

func serve(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"lambda-router","version":"1.0.0"}`, w.Body.String())
}

func TestNoRoute(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "GET /missing")
}

func TestCreateSession(t *testing.T) {
	engine, _ := newTestEngine(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantDetails map[string]string
	}{
		{
			name:       "valid",
			body:       `{"username":"ada","email":"ada@example.com","theme":"dark"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid fields",
			body:       `{"username":"ad","email":"nope","theme":"blue"}`,
			wantStatus: http.StatusBadRequest,
			wantDetails: map[string]string{
				"username": "must be at least 3 characters",
				"email":    "must be a valid email address",
				"theme":    "must be one of: light dark",
			},
		},
		{
			name:        "missing fields",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantDetails: map[string]string{"username": "is required", "email": "is required"},
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/session", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := serve(engine, req)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp SessionResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "ada", resp.Username)
				assert.NotEmpty(t, resp.SessionID)

				cookies := w.Result().Cookies()
				require.Len(t, cookies, 2)
				assert.Equal(t, SessionCookie, cookies[0].Name)
				assert.Equal(t, resp.SessionID, cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
				assert.Equal(t, UsernameCookie, cookies[1].Name)
				assert.Equal(t, "ada", cookies[1].Value)
				return
			}

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantDetails == nil {
				assert.Equal(t, "Invalid request body", resp.Error)
				return
			}
			assert.Equal(t, "Validation failed", resp.Error)
			assert.Equal(t, tt.wantDetails, resp.Details)
		})
	}
}

func TestPixel(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/assets/pixel.png", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
}

func TestDevToken_RefreshAndValidate(t *testing.T) {
	engine, authService := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/dev/token", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var issued TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))
	assert.Equal(t, "demo", issued.User.Username)

	claims, err := authService.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, claims.Roles)

	for _, path := range []string{"/api/v1/auth/refresh", "/api/v1/auth/validate"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"token":"`+issued.Token+`"}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusOK, serve(engine, req).Code, path)

		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"token":"bogus"}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusUnauthorized, serve(engine, req).Code, path)
	}
}

func TestDevToken_Roles(t *testing.T) {
	engine, authService := newTestEngine(t)

	tests := []struct {
		query      string
		wantStatus int
		wantRoles  []string
		wantAdmin  bool
	}{
		{"", http.StatusOK, []string{"admin"}, true},
		{"?role=viewer", http.StatusOK, []string{"viewer"}, false},
		{"?role=Operator", http.StatusOK, []string{"operator"}, false},
		{"?role=root", http.StatusBadRequest, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(engine, httptest.NewRequest(http.MethodPost, "/dev/token"+tt.query, nil))
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var issued TokenResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))
			assert.Equal(t, tt.wantRoles, issued.User.Roles)
			assert.Equal(t, tt.wantAdmin, issued.User.IsAdmin)

			claims, err := authService.ValidateToken(issued.Token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoles, claims.Roles)
		})
	}
}

func TestGetCurrentUser_RequiresRouterAuthentication(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The framework sees what router middleware stored, through the request context
func TestThroughLambdaRouter(t *testing.T) {
	engine, authService := newTestEngine(t)
	logger, _ := test.NewNullLogger()

	r := lambda.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Authentication(authService, logger, "/api/v1/me"))
	r.Get("/ping", Ping())
	r.Get("/version", Version(VersionInfo{Service: "lambda-router", Version: ServiceVersion, Environment: "test"}))
	r.All(lambda.NewRequestHandler(lambda.AdapterOptions{
		Framework: lambda.HandlerFramework(engine),
		Mode:      "test",
		GetLoadContext: func(ctx *lambda.Context, event *lambda.Event) map[string]any {
			return map[string]any{"stage": "dev"}
		},
	}))
	invoke := r.Build()

	token, err := authService.GenerateToken("u-1", "ada", "ada@example.com", []string{"viewer"})
	require.NoError(t, err)

	newEvent := func(method, path string, headers map[string]string) events.APIGatewayV2HTTPRequest {
		return events.APIGatewayV2HTTPRequest{
			RawPath: path,
			Headers: headers,
			RequestContext: events.APIGatewayV2HTTPRequestContext{
				RequestID: "gw-1",
				HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
					Method:   method,
					Path:     path,
					SourceIP: "203.0.113.9",
				},
			},
		}
	}

	t.Run("me", func(t *testing.T) {
		result, err := invoke(context.Background(), newEvent(http.MethodGet, "/api/v1/me",
			map[string]string{"host": "api.example.com", "authorization": "Bearer " + token}))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.JSONEq(t, `{"id":"u-1","username":"ada","email":"ada@example.com","roles":["viewer"],"is_admin":false}`, result.Body)
	})

	t.Run("me without token", func(t *testing.T) {
		result, err := invoke(context.Background(), newEvent(http.MethodGet, "/api/v1/me",
			map[string]string{"host": "api.example.com"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
	})

	t.Run("echo", func(t *testing.T) {
		event := newEvent(http.MethodGet, "/api/v1/echo", map[string]string{"host": "api.example.com"})
		event.RawQueryString = "q=1"
		event.Cookies = []string{"a=1", "b=2"}

		result, err := invoke(context.Background(), event)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, result.StatusCode)

		var echo EchoResponse
		require.NoError(t, json.Unmarshal([]byte(result.Body), &echo))
		assert.Equal(t, "https://api.example.com/api/v1/echo?q=1", echo.URL)
		assert.Equal(t, map[string]string{"q": "1"}, echo.Query)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, echo.Cookies)
		assert.Equal(t, "203.0.113.9", echo.ClientIP)
		assert.Equal(t, "test", echo.Mode)
		assert.Equal(t, "gw-1", echo.RequestID)
		assert.Equal(t, map[string]any{"stage": "dev"}, echo.LoadContext)
	})

	t.Run("pixel is base64 encoded", func(t *testing.T) {
		result, err := invoke(context.Background(), newEvent(http.MethodGet, "/api/v1/assets/pixel.png",
			map[string]string{"host": "api.example.com"}))
		require.NoError(t, err)
		assert.True(t, result.IsBase64Encoded)
		assert.Equal(t, "image/png", result.Headers["Content-Type"])
	})

	t.Run("native routes", func(t *testing.T) {
		result, err := invoke(context.Background(), newEvent(http.MethodGet, "/ping", nil))
		require.NoError(t, err)
		assert.Contains(t, result.Body, `"message":"pong"`)

		result, err = invoke(context.Background(), newEvent(http.MethodGet, "/version", nil))
		require.NoError(t, err)
		assert.Contains(t, result.Body, `"request_id":"gw-1"`)
		assert.Contains(t, result.Body, `"environment":"test"`)
	})

	t.Run("post to a get-only native path", func(t *testing.T) {
		result, err := invoke(context.Background(), newEvent(http.MethodPost, "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound, Body: "Not Found"}, result)
	})
}
