package lambda

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSendResponse_Text(t *testing.T) {
	resp := &http.Response{
		StatusCode: 201,
		Header: http.Header{
			"Content-Type": {"text/plain; charset=utf-8"},
			"X-Multi":      {"a", "b"},
		},
		Body: io.NopCloser(strings.NewReader("created")),
	}

	result, err := SendResponse(resp)
	require.NoError(t, err)

	assert.Equal(t, 201, result.StatusCode)
	assert.Equal(t, "created", result.Body)
	assert.False(t, result.IsBase64Encoded)
	assert.Equal(t, "text/plain; charset=utf-8", result.Headers["Content-Type"])
	assert.Equal(t, "a, b", result.Headers["X-Multi"])
	assert.Empty(t, result.Cookies)
}

func TestSendResponse_Cookies(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Header: http.Header{
			"Set-Cookie":   {"session=abc; Path=/; HttpOnly", "theme=dark"},
			"Content-Type": {"text/html"},
		},
		Body: http.NoBody,
	}
	// A non-canonical key, as a hand-built header map might contain
	resp.Header["set-cookie"] = []string{"lang=en"}

	result, err := SendResponse(resp)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"session=abc; Path=/; HttpOnly", "theme=dark", "lang=en"}, result.Cookies)
	for name := range result.Headers {
		assert.NotEqual(t, "set-cookie", strings.ToLower(name))
	}
	assert.Equal(t, "text/html", result.Headers["Content-Type"])

	// The framework response headers are left untouched
	assert.Len(t, resp.Header.Values("Set-Cookie"), 2)
}

func TestSendResponse_TwoCookies(t *testing.T) {
	header := http.Header{}
	header.Add("Set-Cookie", "a=1")
	header.Add("Set-Cookie", "b=2")

	result, err := SendResponse(&http.Response{StatusCode: 200, Header: header, Body: http.NoBody})
	require.NoError(t, err)

	assert.Equal(t, []string{"a=1", "b=2"}, result.Cookies)
	_, ok := result.Headers["Set-Cookie"]
	assert.False(t, ok)
}

func TestSendResponse_Binary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": {"image/png"}},
		Body:       io.NopCloser(strings.NewReader(string(png))),
	}

	result, err := SendResponse(resp)
	require.NoError(t, err)

	assert.True(t, result.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString(png), result.Body)
}

func TestSendResponse_NoBody(t *testing.T) {
	for _, body := range []io.ReadCloser{nil, http.NoBody} {
		result, err := SendResponse(&http.Response{StatusCode: 204, Header: http.Header{}, Body: body})
		require.NoError(t, err)
		assert.Equal(t, 204, result.StatusCode)
		assert.Empty(t, result.Body)
	}
}

func TestSendResponse_ReadFailure(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{},
		Body:       io.NopCloser(failingReader{}),
	}

	result, err := SendResponse(resp)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrBodyRead)
	assert.True(t, IsTranslationError(err))
}

func TestSendResponse_Nil(t *testing.T) {
	_, err := SendResponse(nil)
	assert.ErrorIs(t, err, ErrNilResponse)
}
