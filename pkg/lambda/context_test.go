package lambda

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Values(t *testing.T) {
	type parentKey struct{}
	parent := context.WithValue(context.Background(), parentKey{}, "from-parent")
	ctx := NewContext(parent)

	_, ok := ctx.Get("missing")
	assert.False(t, ok)

	ctx.Set("role", "admin")
	ctx.Set("role", "viewer")
	assert.Equal(t, "viewer", ctx.GetString("role"))

	ctx.Set("count", 3)
	assert.Equal(t, "", ctx.GetString("count"))

	assert.Equal(t, "viewer", ctx.Value("role"))
	assert.Equal(t, "from-parent", ctx.Value(parentKey{}))

	_, ok = ctx.Invocation()
	assert.False(t, ok)

	lc := &lambdacontext.LambdaContext{AwsRequestID: "req-1"}
	ctx = NewContext(lambdacontext.NewContext(context.Background(), lc))
	got, ok := ctx.Invocation()
	require.True(t, ok)
	assert.Equal(t, "req-1", got.AwsRequestID)
}
