package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lambda-router/internal/config"
	"lambda-router/pkg/lambda"
)

// Runtime builds the container on the first invocation and reuses it while
// the execution environment stays warm. A failed build is retried on the
// next invocation.
type Runtime struct {
	load func() (*Container, error)

	mu          sync.Mutex
	container   *Container
	lastUsed    time.Time
	invocations int64
}

// NewRuntime creates a runtime around a container constructor
func NewRuntime(load func() (*Container, error)) *Runtime {
	return &Runtime{load: load}
}

// LoadFromEnvironment loads configuration from the environment and builds
// the container
func LoadFromEnvironment() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewContainer(cfg)
}

// Container returns the warm container, building it if necessary
func (r *Runtime) Container() (*Container, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.container == nil {
		container, err := r.load()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize container: %w", err)
		}
		r.container = container
		container.Logger.Info("Cold start")
	}

	r.lastUsed = time.Now()
	r.invocations++
	return r.container, nil
}

// Handler returns the function to hand to the Lambda runtime
func (r *Runtime) Handler() lambda.InvokeFunc {
	return func(ctx context.Context, event lambda.Event) (lambda.Result, error) {
		container, err := r.Container()
		if err != nil {
			return lambda.Result{}, err
		}
		return container.Handler()(ctx, event)
	}
}

// IsWarm reports whether a container was used within maxIdle
func (r *Runtime) IsWarm(maxIdle time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.container != nil && time.Since(r.lastUsed) < maxIdle
}

// Invocations returns how many invocations this runtime has served
func (r *Runtime) Invocations() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.invocations
}

// Close releases the container
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.container == nil {
		return nil
	}
	err := r.container.Close()
	r.container = nil
	return err
}
