package middleware

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"lambda-router/pkg/lambda"
)

// RateLimiter implements rate limiting middleware. The limiter is shared by
// every invocation served by the same execution environment.
func RateLimiter(requestsPerSecond float64, burstSize int, logger logrus.FieldLogger) lambda.Middleware {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		if !limiter.Allow() {
			logger.WithFields(logrus.Fields{
				"client_ip":  event.RequestContext.HTTP.SourceIP,
				"path":       event.RawPath,
				"user_agent": event.RequestContext.HTTP.UserAgent,
				"request_id": ctx.GetString(RequestIDKey),
			}).Warn("Rate limit exceeded")

			next(Abort(ctx, http.StatusTooManyRequests, "Rate limit exceeded",
				fmt.Sprintf("Too many requests. Limit: %.1f requests per second", requestsPerSecond)))
			return
		}
		next(nil)
	}
}

// ContentTypeValidation validates the content type of requests that carry a body
func ContentTypeValidation(allowedTypes ...string) lambda.Middleware {
	if len(allowedTypes) == 0 {
		allowedTypes = []string{"application/json"}
	}

	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		if event.Body == "" {
			next(nil)
			return
		}

		contentType := lambda.HeaderValue(event.Headers, "content-type")
		if contentType == "" {
			next(Abort(ctx, http.StatusBadRequest, "Missing Content-Type header", "Content-Type header is required"))
			return
		}

		// Extract main content type (ignore charset, boundary, etc.)
		mainType := strings.TrimSpace(strings.Split(contentType, ";")[0])

		for _, allowedType := range allowedTypes {
			if mainType == allowedType {
				next(nil)
				return
			}
		}

		next(Abort(ctx, http.StatusUnsupportedMediaType, "Unsupported Content-Type",
			fmt.Sprintf("Content-Type '%s' is not supported. Allowed types: %v", mainType, allowedTypes)))
	}
}

// RequestSizeLimit rejects requests whose decoded body exceeds maxSize bytes
func RequestSizeLimit(maxSize int64) lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		size := bodySize(event)

		if size > maxSize {
			next(Abort(ctx, http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", size, maxSize)))
			return
		}
		next(nil)
	}
}

// bodySize returns the decoded size of the event body. For base64 bodies the
// padding is not part of the payload.
func bodySize(event *lambda.Event) int64 {
	if !event.IsBase64Encoded {
		return int64(len(event.Body))
	}
	padding := len(event.Body) - len(strings.TrimRight(event.Body, "="))
	if padding > 2 {
		padding = 2
	}
	return int64(max(base64.StdEncoding.DecodedLen(len(event.Body))-padding, 0))
}
