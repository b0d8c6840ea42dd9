package lambda

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Context is the request-scoped context shared by every middleware and
// handler of one invocation. It embeds the platform context, so it can be
// passed wherever a context.Context is expected, and carries values that
// middleware attach for later stages. Set overwrites: the last writer wins.
type Context struct {
	context.Context

	mu     sync.RWMutex
	values map[string]any
}

// NewContext creates an empty request context on top of the invocation context
func NewContext(parent context.Context) *Context {
	if parent == nil {
		parent = context.Background()
	}
	return &Context{Context: parent}
}

// Set stores a value for the rest of the invocation
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Get returns the value stored under key
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.values[key]
	return value, ok
}

// GetString returns the value stored under key if it is a string
func (c *Context) GetString(key string) string {
	if value, ok := c.Get(key); ok {
		s, _ := value.(string)
		return s
	}
	return ""
}

// Value looks up router values before falling back to the invocation context.
// Contexts derived from c (for example the framework request's) see them too.
func (c *Context) Value(key any) any {
	if k, ok := key.(string); ok {
		if value, exists := c.Get(k); exists {
			return value
		}
	}
	return c.Context.Value(key)
}

// Invocation returns the Lambda invocation metadata, when running under the
// Lambda runtime or the sandbox
func (c *Context) Invocation() (*lambdacontext.LambdaContext, bool) {
	return lambdacontext.FromContext(c.Context)
}
