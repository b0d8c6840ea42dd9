package handlers

import (
	"net/http"
	"time"

	"lambda-router/internal/middleware"
	"lambda-router/pkg/lambda"
)

// Handlers in this file are registered directly on the lambda router and
// never reach the framework.

// Ping answers GET /ping
func Ping() lambda.Handler {
	return func(ctx *lambda.Context, event *lambda.Event) (*lambda.Result, error) {
		return middleware.JSON(http.StatusOK, map[string]string{
			"message": "pong",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}), nil
	}
}

// VersionInfo describes the running deployment
type VersionInfo struct {
	Service        string `json:"service"`
	Version        string `json:"version"`
	Environment    string `json:"environment"`
	DeploymentMode string `json:"deployment_mode"`
	FunctionName   string `json:"function_name,omitempty"`
	Region         string `json:"region,omitempty"`
	Stage          string `json:"stage,omitempty"`
}

type versionResponse struct {
	VersionInfo
	RequestID    string `json:"request_id,omitempty"`
	AwsRequestID string `json:"aws_request_id,omitempty"`
}

// Version answers GET /version
func Version(info VersionInfo) lambda.Handler {
	return func(ctx *lambda.Context, event *lambda.Event) (*lambda.Result, error) {
		resp := versionResponse{
			VersionInfo: info,
			RequestID:   ctx.GetString(middleware.RequestIDKey),
		}
		if lc, ok := ctx.Invocation(); ok {
			resp.AwsRequestID = lc.AwsRequestID
		}
		return middleware.JSON(http.StatusOK, resp), nil
	}
}

// RouteTable answers GET /admin/routes with the router's registered routes.
// The router must gate the path behind Authentication and Authorization.
func RouteTable(router *lambda.Router) lambda.Handler {
	return func(ctx *lambda.Context, event *lambda.Event) (*lambda.Result, error) {
		user, _ := middleware.GetUser(ctx)

		routes := router.Routes()
		out := make([]map[string]string, 0, len(routes))
		for _, route := range routes {
			out = append(out, map[string]string{"method": route.Method, "path": route.Path})
		}

		return middleware.JSON(http.StatusOK, map[string]any{
			"routes":       out,
			"requested_by": user,
			"is_admin":     middleware.IsAdmin(ctx),
		}), nil
	}
}
