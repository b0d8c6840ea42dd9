package lambda

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// CatchAllPath is the reserved key of the fallback handler
const CatchAllPath = "*"

type route struct {
	get  Handler
	post Handler
}

// RouteInfo describes one registered route
type RouteInfo struct {
	Method string
	Path   string
}

// Router dispatches gateway events to exact-path handlers after running the
// middleware pipeline.
//
// Registration is expected to finish before the first invocation. The route
// table is not locked, so registering while invocations are in flight is a
// data race.
type Router struct {
	routes     map[string]*route
	catchAll   Handler
	middleware []Middleware
}

// New creates an empty router
func New() *Router {
	return &Router{
		routes: make(map[string]*route),
	}
}

// Get registers the GET handler for path. A second registration for the same
// path replaces the first.
func (r *Router) Get(path string, h Handler) {
	r.entry(path).get = h
}

// Post registers the POST handler for path. A second registration for the
// same path replaces the first.
func (r *Router) Post(path string, h Handler) {
	r.entry(path).post = h
}

// All registers the catch-all handler, used when no path entry matches. It
// is also where a framework adapter is mounted. Only one catch-all exists:
// the last registration wins, so mounting a framework and then calling All
// again silently replaces the framework.
func (r *Router) All(h Handler) {
	r.catchAll = h
}

// Use appends middleware. Middleware run in registration order, before any
// route lookup, regardless of when routes were registered.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

func (r *Router) entry(path string) *route {
	rt, ok := r.routes[path]
	if !ok {
		rt = &route{}
		r.routes[path] = rt
	}
	return rt
}

// Lookup returns the handler registered for method and path. Only GET and
// POST are routable; any other method is never found.
func (r *Router) Lookup(method, path string) (Handler, bool) {
	rt, ok := r.routes[path]
	if !ok {
		return nil, false
	}
	h := rt.handler(method)
	return h, h != nil
}

func (rt *route) handler(method string) Handler {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return rt.get
	case http.MethodPost:
		return rt.post
	default:
		return nil
	}
}

// Routes lists the registered routes sorted by path then method. The
// catch-all, when present, is reported with path "*".
func (r *Router) Routes() []RouteInfo {
	routes := make([]RouteInfo, 0, len(r.routes)*2+1)
	for path, rt := range r.routes {
		if rt.get != nil {
			routes = append(routes, RouteInfo{Method: http.MethodGet, Path: path})
		}
		if rt.post != nil {
			routes = append(routes, RouteInfo{Method: http.MethodPost, Path: path})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	if r.catchAll != nil {
		routes = append(routes, RouteInfo{Method: "ANY", Path: CatchAllPath})
	}
	return routes
}

// Dispatch runs one invocation: middleware, then route lookup, then the
// matched handler, the catch-all or a 404. Handler errors are returned
// unchanged.
func (r *Router) Dispatch(ctx context.Context, event *Event) (*Result, error) {
	rc := NewContext(ctx)

	result, err := r.runMiddleware(rc, event)
	if err != nil || result != nil {
		return result, err
	}

	h := r.resolve(event.RequestContext.HTTP.Method, event.RawPath)
	if h == nil {
		return NotFound(), nil
	}

	result, err = h(rc, event)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNilResult
	}
	return result, nil
}

// resolve picks the handler for an invocation. A path entry without a
// handler for the method is a dead end: it does not fall through to the
// catch-all.
func (r *Router) resolve(method, path string) Handler {
	if rt, ok := r.routes[path]; ok {
		return rt.handler(method)
	}
	return r.catchAll
}

func (r *Router) runMiddleware(rc *Context, event *Event) (*Result, error) {
	for _, mw := range r.middleware {
		done := make(chan *Result, 1)
		var once sync.Once
		next := func(result *Result) {
			once.Do(func() { done <- result })
		}

		mw(rc, event, next)

		result, err := wait(rc, done)
		if err != nil || result != nil {
			return result, err
		}
	}
	return nil, nil
}

// wait blocks until the middleware completes. A middleware that never calls
// next holds the invocation until the platform deadline cancels ctx.
func wait(ctx context.Context, done <-chan *Result) (*Result, error) {
	select {
	case result := <-done:
		return result, nil
	default:
	}

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Build returns the function to hand to the Lambda runtime
func (r *Router) Build() InvokeFunc {
	return func(ctx context.Context, event Event) (Result, error) {
		result, err := r.Dispatch(ctx, &event)
		if err != nil {
			return Result{}, err
		}
		return *result, nil
	}
}
