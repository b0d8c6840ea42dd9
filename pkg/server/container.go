package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lambda-router/internal/config"
	"lambda-router/internal/handlers"
	"lambda-router/internal/middleware"
	"lambda-router/pkg/lambda"
)

// adminPrefix is reserved for operators and admins
const adminPrefix = "/admin"

// Paths that require a bearer token before reaching the framework
var protectedPrefixes = []string{"/api/v1/me", adminPrefix}

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	AuthService *middleware.AuthService
	Engine      *gin.Engine
	Router      *lambda.Router

	handler lambda.InvokeFunc
}

// NewContainer wires the router, its middleware and the gin application
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	authService := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		Issuer:        cfg.JWT.Issuer,
	})

	engine := newEngine(cfg, authService)

	router := lambda.New()
	router.Use(
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.HTTP.CORSAllowOrigin),
		middleware.RequestSizeLimit(cfg.HTTP.MaxBodyBytes),
		middleware.ContentTypeValidation("application/json", "multipart/form-data", "application/x-www-form-urlencoded"),
	)
	if cfg.RateLimit.RequestsPerSecond > 0 {
		router.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger))
	}
	router.Use(
		middleware.OptionalAuthentication(authService),
		middleware.Authentication(authService, logger, protectedPrefixes...),
		middleware.Authorization(adminPrefix, string(middleware.RoleAdmin), string(middleware.RoleOperator)),
	)

	router.Get("/ping", handlers.Ping())
	router.Get("/version", handlers.Version(handlers.VersionInfo{
		Service:        "lambda-router",
		Version:        handlers.ServiceVersion,
		Environment:    cfg.Environment,
		DeploymentMode: cfg.DeploymentMode(),
		FunctionName:   cfg.Serverless.FunctionName,
		Region:         cfg.Serverless.Region,
		Stage:          cfg.Serverless.Stage,
	}))

	router.Get(adminPrefix+"/routes", handlers.RouteTable(router))

	router.All(lambda.NewRequestHandler(lambda.AdapterOptions{
		Framework:      lambda.HandlerFramework(engine),
		Sandbox:        cfg.Sandbox,
		Mode:           cfg.Mode,
		GetLoadContext: loadContext(cfg),
	}))

	container := &Container{
		Config:      cfg,
		Logger:      logger,
		AuthService: authService,
		Engine:      engine,
		Router:      router,
	}
	container.handler = container.logInvocations(router.Build())

	for _, route := range router.Routes() {
		logger.WithFields(logrus.Fields{
			"method": route.Method,
			"path":   route.Path,
		}).Debug("Route registered")
	}

	logger.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"mode":            cfg.Mode,
		"sandbox":         cfg.Sandbox,
		"deployment_mode": cfg.DeploymentMode(),
		"routes":          len(router.Routes()),
	}).Info("Container initialized")

	return container, nil
}

// Handler returns the function to hand to the Lambda runtime or the sandbox
func (c *Container) Handler() lambda.InvokeFunc {
	return c.handler
}

// Close cleans up all resources
func (c *Container) Close() error {
	c.Logger.Info("Container closed")
	return nil
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if cfg.IsProduction() || cfg.Serverless.IsLambda {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// ginMode maps the application environment to a gin mode
func ginMode(environment string) string {
	switch environment {
	case "production", "staging":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func newEngine(cfg *config.Config, authService *middleware.AuthService) *gin.Engine {
	gin.SetMode(ginMode(cfg.Environment))

	engine := gin.New()
	engine.Use(gin.Recovery())

	routerConfig := &handlers.RouterConfig{
		AuthService: authService,
		TokenTTL:    time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
	}
	handlers.SetupRoutes(engine, routerConfig)
	if !cfg.IsProduction() {
		handlers.SetupDevelopmentRoutes(engine, routerConfig)
	}

	return engine
}

func loadContext(cfg *config.Config) lambda.GetLoadContextFunc {
	return func(ctx *lambda.Context, event *lambda.Event) map[string]any {
		values := map[string]any{
			"request_id": ctx.GetString(middleware.RequestIDKey),
			"stage":      cfg.Serverless.Stage,
		}
		if event.RequestContext.Stage != "" {
			values["stage"] = event.RequestContext.Stage
		}
		if user, ok := middleware.GetUser(ctx); ok {
			values["user_id"] = user.ID
		}
		return values
	}
}

// logInvocations logs the outcome of every invocation at a level chosen by
// status code. The router itself does not log.
func (c *Container) logInvocations(next lambda.InvokeFunc) lambda.InvokeFunc {
	return func(ctx context.Context, event lambda.Event) (lambda.Result, error) {
		start := time.Now()
		result, err := next(ctx, event)

		fields := logrus.Fields{
			"method":      event.RequestContext.HTTP.Method,
			"path":        event.RawPath,
			"duration_ms": time.Since(start).Milliseconds(),
		}

		if err != nil {
			c.Logger.WithFields(fields).WithError(err).Error("Invocation failed")
			return result, err
		}

		fields["status"] = result.StatusCode
		entry := c.Logger.WithFields(fields)
		switch {
		case result.StatusCode >= 500:
			entry.Error("Request completed")
		case result.StatusCode >= 400:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}

		return result, nil
	}
}
