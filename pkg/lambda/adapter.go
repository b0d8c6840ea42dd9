package lambda

import (
	"context"
	"fmt"
)

// GetLoadContextFunc derives the values handed to the framework for one
// request, typically from what middleware stored on the router context
type GetLoadContextFunc func(ctx *Context, event *Event) map[string]any

// AdapterOptions configures a framework request handler
type AdapterOptions struct {
	// Framework renders requests; required
	Framework Framework

	// Sandbox selects the http scheme for translated request URLs
	Sandbox bool

	// Mode is passed through to the framework unchanged, see ModeFrom
	Mode string

	// GetLoadContext is optional
	GetLoadContext GetLoadContextFunc
}

type adapterKey int

const (
	loadContextKey adapterKey = iota
	modeKey
)

// NewRequestHandler builds a route handler that serves invocations through an
// external framework: the event is translated to a request, rendered, and the
// response translated back. Mount it with Router.All.
func NewRequestHandler(opts AdapterOptions) Handler {
	if opts.Framework == nil {
		panic("lambda: AdapterOptions.Framework is required")
	}
	translator := NewRequestTranslator(opts.Sandbox)

	return func(ctx *Context, event *Event) (*Result, error) {
		var loadContext map[string]any
		if opts.GetLoadContext != nil {
			loadContext = opts.GetLoadContext(ctx, event)
		}

		base := context.WithValue(ctx, modeKey, opts.Mode)
		base = context.WithValue(base, loadContextKey, loadContext)

		req, cancel, err := translator.CreateRequest(base, event)
		if err != nil {
			return nil, err
		}
		defer cancel()

		resp, err := opts.Framework(req)
		if err != nil {
			return nil, fmt.Errorf("framework: %w", err)
		}

		return SendResponse(resp)
	}
}

// LoadContext returns the values produced by GetLoadContext for the request
// being served
func LoadContext(ctx context.Context) map[string]any {
	values, _ := ctx.Value(loadContextKey).(map[string]any)
	return values
}

// ModeFrom returns the runtime mode the adapter was configured with
func ModeFrom(ctx context.Context) string {
	mode, _ := ctx.Value(modeKey).(string)
	return mode
}
