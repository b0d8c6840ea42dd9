package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// RequestTranslator converts gateway events into net/http requests
type RequestTranslator struct {
	sandbox bool
}

// NewRequestTranslator creates a translator. Sandbox deployments are served
// over plain http, everything else over https.
func NewRequestTranslator(sandbox bool) *RequestTranslator {
	return &RequestTranslator{sandbox: sandbox}
}

// Scheme returns the URL scheme used for translated requests
func (t *RequestTranslator) Scheme() string {
	if t.sandbox {
		return "http"
	}
	return "https"
}

// CreateRequest builds the canonical request for an event. The returned
// cancel func aborts the request context; the gateway never does so itself,
// so callers must release it once the request has been handled.
func (t *RequestTranslator) CreateRequest(ctx context.Context, event *Event) (*http.Request, context.CancelFunc, error) {
	host := HeaderValue(event.Headers, "x-forwarded-host")
	if host == "" {
		host = HeaderValue(event.Headers, "host")
	}

	u, err := t.requestURL(host, event)
	if err != nil {
		return nil, nil, newTranslationError("request", err)
	}

	body, err := requestBody(event)
	if err != nil {
		return nil, nil, newTranslationError("request", err)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(reqCtx, event.RequestContext.HTTP.Method, "", body)
	if err != nil {
		cancel()
		return nil, nil, newTranslationError("request", err)
	}
	req.URL = u
	req.Host = u.Host

	req.Header = CreateHeaders(event.Headers, event.Cookies)
	if sourceIP := event.RequestContext.HTTP.SourceIP; sourceIP != "" {
		req.RemoteAddr = net.JoinHostPort(sourceIP, "0")
	}

	return req, cancel, nil
}

// requestURL assembles the URL from its parts. Only the host is parsed; the
// raw path is kept as sent, even when it holds escapes that do not decode.
func (t *RequestTranslator) requestURL(host string, event *Event) (*url.URL, error) {
	base, err := url.Parse(t.Scheme() + "://" + host)
	if err != nil || base.Path != "" || base.RawQuery != "" || base.Fragment != "" || base.User != nil {
		return nil, fmt.Errorf("%w: host %q", ErrInvalidURL, host)
	}

	path, err := url.PathUnescape(event.RawPath)
	if err != nil {
		path = event.RawPath
	}

	return &url.URL{
		Scheme:   base.Scheme,
		Host:     base.Host,
		Path:     path,
		RawPath:  event.RawPath,
		RawQuery: event.RawQueryString,
	}, nil
}

// CreateHeaders copies gateway headers, skipping empty values, and folds the
// cookie list into a single Cookie header
func CreateHeaders(headers map[string]string, cookies []string) http.Header {
	h := make(http.Header, len(headers)+1)
	for name, value := range headers {
		if value != "" {
			h.Add(name, value)
		}
	}

	if len(cookies) > 0 {
		h.Add("Cookie", strings.Join(cookies, "; "))
	}

	return h
}

func requestBody(event *Event) (io.Reader, error) {
	if event.Body == "" {
		return http.NoBody, nil
	}

	if !event.IsBase64Encoded {
		return strings.NewReader(event.Body), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if strings.Contains(HeaderValue(event.Headers, "content-type"), "multipart/form-data") {
		return bytes.NewReader(decoded), nil
	}

	// Decoded as text: invalid byte sequences become U+FFFD
	return strings.NewReader(strings.ToValidUTF8(string(decoded), "\uFFFD")), nil
}

// HeaderValue looks a gateway header up case-insensitively. The gateway
// lowercases header names, but test events and other proxies may not.
func HeaderValue(headers map[string]string, name string) string {
	if value, ok := headers[name]; ok {
		return value
	}
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}
