package lambda

import (
	"errors"
	"fmt"
)

// Translation and contract errors
var (
	ErrMalformedBody = errors.New("malformed base64 body")
	ErrInvalidURL    = errors.New("invalid request url")
	ErrBodyRead      = errors.New("failed to read response body")
	ErrNilResult     = errors.New("handler returned no result")
	ErrNilResponse   = errors.New("framework returned no response")
)

// TranslationError is returned when an event or a response cannot be
// converted between the gateway shape and net/http
type TranslationError struct {
	Op  string // "request" or "response"
	Err error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("lambda %s translation failed: %v", e.Op, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func newTranslationError(op string, err error) *TranslationError {
	return &TranslationError{Op: op, Err: err}
}

// IsTranslationError returns true if err came from the event or response translator
func IsTranslationError(err error) bool {
	var te *TranslationError
	return errors.As(err, &te)
}
