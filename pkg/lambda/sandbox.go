package lambda

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// NewSandboxHandler serves an invoke function over plain HTTP, shaping each
// request the way API Gateway would before invoking it. It is meant for local
// development; the translated request URLs should use the http scheme, so
// build the invoke function with sandbox mode enabled.
func NewSandboxHandler(invoke InvokeFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, err := NewEvent(r)
		if err != nil {
			writeSandboxError(w, http.StatusBadRequest, err)
			return
		}

		ctx := lambdacontext.NewContext(r.Context(), &lambdacontext.LambdaContext{
			AwsRequestID:       event.RequestContext.RequestID,
			InvokedFunctionArn: "arn:aws:lambda:sandbox:000000000000:function:" + lambdacontext.FunctionName,
		})

		result, err := invoke(ctx, *event)
		if err != nil {
			writeSandboxError(w, http.StatusBadGateway, err)
			return
		}

		if err := writeResult(w, &result); err != nil {
			writeSandboxError(w, http.StatusBadGateway, err)
		}
	})
}

// NewEvent converts an incoming HTTP request into a gateway event. Header
// names are lowercased, cookies move into the event's cookie list and bodies
// that are binary or multipart are base64 encoded.
func NewEvent(r *http.Request) (*Event, error) {
	headers := make(map[string]string, len(r.Header)+1)
	var cookies []string
	for name, values := range r.Header {
		key := strings.ToLower(name)
		if key == "cookie" {
			for _, v := range values {
				for _, c := range strings.Split(v, ";") {
					if c = strings.TrimSpace(c); c != "" {
						cookies = append(cookies, c)
					}
				}
			}
			continue
		}
		headers[key] = strings.Join(values, ",")
	}
	if _, ok := headers["host"]; !ok && r.Host != "" {
		headers["host"] = r.Host
	}

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
	}

	contentType := headers["content-type"]
	encode := IsBinaryType(contentType) || strings.Contains(contentType, "multipart/form-data")

	now := time.Now().UTC()
	event := &Event{
		Version:        "2.0",
		RouteKey:       "$default",
		RawPath:        r.URL.EscapedPath(),
		RawQueryString: r.URL.RawQuery,
		Cookies:        cookies,
		Headers:        headers,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RouteKey:   "$default",
			Stage:      "$default",
			RequestID:  uuid.NewString(),
			DomainName: r.Host,
			Time:       now.Format("02/Jan/2006:15:04:05 -0700"),
			TimeEpoch:  now.UnixMilli(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  sourceIP(r.RemoteAddr),
				UserAgent: r.UserAgent(),
			},
		},
		IsBase64Encoded: encode && len(body) > 0,
	}

	if len(body) > 0 {
		if encode {
			event.Body = base64.StdEncoding.EncodeToString(body)
		} else {
			event.Body = string(body)
		}
	}

	return event, nil
}

func writeResult(w http.ResponseWriter, result *Result) error {
	body := []byte(result.Body)
	if result.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(result.Body)
		if err != nil {
			return err
		}
		body = decoded
	}

	for name, value := range result.Headers {
		w.Header().Set(name, value)
	}
	for name, values := range result.MultiValueHeaders {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	for _, c := range result.Cookies {
		w.Header().Add("Set-Cookie", c)
	}

	status := result.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func writeSandboxError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   http.StatusText(status),
		"message": err.Error(),
	})
}

func sourceIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
