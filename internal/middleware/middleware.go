package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"lambda-router/pkg/lambda"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// JSON builds a JSON result. Encoding failures fall back to a bare 500.
func JSON(status int, body any) *lambda.Result {
	data, err := json.Marshal(body)
	if err != nil {
		return &lambda.Result{StatusCode: http.StatusInternalServerError, Body: "Internal Server Error"}
	}
	return &lambda.Result{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       string(data),
	}
}

// Abort builds the short-circuit result used by the middleware in this package
func Abort(ctx *lambda.Context, status int, errMsg, message string) *lambda.Result {
	return JSON(status, ErrorResponse{
		Error:     errMsg,
		Message:   message,
		RequestID: ctx.GetString(RequestIDKey),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CORS answers preflight requests directly. Other requests continue untouched;
// the framework sets CORS headers on its own responses.
func CORS(allowOrigin string) lambda.Middleware {
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		if event.RequestContext.HTTP.Method != http.MethodOptions {
			next(nil)
			return
		}

		next(&lambda.Result{
			StatusCode: http.StatusNoContent,
			Headers: map[string]string{
				"Access-Control-Allow-Origin":      allowOrigin,
				"Access-Control-Allow-Methods":     "GET, POST, PUT, DELETE, OPTIONS",
				"Access-Control-Allow-Headers":     "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization",
				"Access-Control-Expose-Headers":    "Content-Length",
				"Access-Control-Allow-Credentials": "true",
			},
		})
	}
}
