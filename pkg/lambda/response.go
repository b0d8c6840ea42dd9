package lambda

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SendResponse converts a framework response into the gateway result.
// Set-Cookie headers travel in the result's Cookies field, and binary bodies
// are base64 encoded. The response body is always closed.
func SendResponse(resp *http.Response) (*Result, error) {
	if resp == nil {
		return nil, newTranslationError("response", ErrNilResponse)
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	header := resp.Header.Clone()
	if header == nil {
		header = http.Header{}
	}

	var cookies []string
	for name, values := range header {
		if strings.EqualFold(name, "Set-Cookie") {
			cookies = append(cookies, values...)
			delete(header, name)
		}
	}

	isBase64Encoded := IsBinaryType(header.Get("Content-Type"))

	var body string
	if resp.Body != nil && resp.Body != http.NoBody {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, newTranslationError("response", fmt.Errorf("%w: %v", ErrBodyRead, err))
		}
		if isBase64Encoded {
			body = base64.StdEncoding.EncodeToString(data)
		} else {
			body = string(data)
		}
	}

	headers := make(map[string]string, len(header))
	for name, values := range header {
		headers[name] = strings.Join(values, ", ")
	}

	return &Result{
		StatusCode:      resp.StatusCode,
		Headers:         headers,
		Cookies:         cookies,
		Body:            body,
		IsBase64Encoded: isBase64Encoded,
	}, nil
}
