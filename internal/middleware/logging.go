package middleware

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lambda-router/pkg/lambda"
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// CorrelationIDKey is the key used to store correlation ID in context
const CorrelationIDKey = "correlation_id"

// RequestID stores a request ID for the invocation: the caller's
// X-Request-ID, else the gateway's request id, else a new UUID
func RequestID() lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		requestID := lambda.HeaderValue(event.Headers, "x-request-id")
		if requestID == "" {
			requestID = event.RequestContext.RequestID
		}
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx.Set(RequestIDKey, requestID)
		next(nil)
	}
}

// CorrelationID adds correlation ID for distributed tracing
func CorrelationID() lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		correlationID := lambda.HeaderValue(event.Headers, "x-correlation-id")
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		ctx.Set(CorrelationIDKey, correlationID)
		next(nil)
	}
}

// RequestLogger logs every invocation as it enters the router
func RequestLogger(logger logrus.FieldLogger) lambda.Middleware {
	return func(ctx *lambda.Context, event *lambda.Event, next lambda.Next) {
		fields := logrus.Fields{
			"request_id":     ctx.GetString(RequestIDKey),
			"correlation_id": ctx.GetString(CorrelationIDKey),
			"method":         event.RequestContext.HTTP.Method,
			"path":           event.RawPath,
			"client_ip":      event.RequestContext.HTTP.SourceIP,
			"user_agent":     event.RequestContext.HTTP.UserAgent,
		}

		if event.RawQueryString != "" {
			fields["query"] = event.RawQueryString
		}

		if lc, ok := ctx.Invocation(); ok {
			fields["aws_request_id"] = lc.AwsRequestID
		}

		logger.WithFields(fields).Info("HTTP Request")
		next(nil)
	}
}
