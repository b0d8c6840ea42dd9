package lambda

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// Framework renders a canonical request into a canonical response
type Framework func(req *http.Request) (*http.Response, error)

// HandlerFramework adapts an http.Handler, such as a gin engine, into a
// Framework by buffering everything it writes
func HandlerFramework(h http.Handler) Framework {
	return func(req *http.Request) (*http.Response, error) {
		rec := newResponseRecorder()
		h.ServeHTTP(rec, req)
		return rec.result(req), nil
	}
}

// responseRecorder is a minimal buffering http.ResponseWriter
type responseRecorder struct {
	header      http.Header
	body        *bytes.Buffer
	status      int
	wroteHeader bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{
		header: make(http.Header),
		body:   new(bytes.Buffer),
		status: http.StatusOK,
	}
}

func (r *responseRecorder) Header() http.Header {
	return r.header
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.body.Len() == 0 && len(b) > 0 {
		r.sniffContentType(b)
	}
	return r.body.Write(b)
}

// sniffContentType fills in a missing Content-Type from the first chunk of
// the body, as net/http does. A Content-Type key set to nil opts out.
func (r *responseRecorder) sniffContentType(b []byte) {
	if _, ok := r.header["Content-Type"]; ok {
		return
	}
	if r.header.Get("Transfer-Encoding") != "" {
		return
	}
	if r.status == http.StatusNoContent || r.status == http.StatusNotModified {
		return
	}
	r.header.Set("Content-Type", http.DetectContentType(b))
}

// Flush is a no-op; the body is delivered in one piece
func (r *responseRecorder) Flush() {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
}

func (r *responseRecorder) result(req *http.Request) *http.Response {
	resp := &http.Response{
		Status:        strconv.Itoa(r.status) + " " + http.StatusText(r.status),
		StatusCode:    r.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        r.header.Clone(),
		Request:       req,
		ContentLength: int64(r.body.Len()),
		Body:          http.NoBody,
	}
	if r.body.Len() > 0 {
		resp.Body = io.NopCloser(bytes.NewReader(r.body.Bytes()))
	}
	return resp
}
