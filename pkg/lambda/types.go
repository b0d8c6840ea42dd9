// Package lambda routes API Gateway HTTP API events to exact-path handlers
// and adapts net/http frameworks to the Lambda invocation model.
package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// Event is the inbound API Gateway HTTP API (payload format 2.0) event
type Event = events.APIGatewayV2HTTPRequest

// Result is the outbound API Gateway HTTP API result
type Result = events.APIGatewayV2HTTPResponse

// Handler handles a routed invocation and produces its result
type Handler func(ctx *Context, event *Event) (*Result, error)

// Next completes a middleware. A non-nil result short-circuits the pipeline.
type Next func(result *Result)

// Middleware runs before route dispatch and must call next exactly once
type Middleware func(ctx *Context, event *Event, next Next)

// InvokeFunc is the signature accepted by the Lambda runtime's Start
type InvokeFunc func(ctx context.Context, event Event) (Result, error)

// NotFound returns the result produced when nothing handles an invocation
func NotFound() *Result {
	return &Result{
		StatusCode: 404,
		Body:       "Not Found",
	}
}
