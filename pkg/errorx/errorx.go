// Package errorx provides a tiny registered-error-code pattern: each HTTP
// handler package registers a set of Coders at init time and wraps errors
// with WithCode/WrapC, so the core.WriteResponse helper can always recover
// an HTTP status and a stable machine-readable code.
package errorx

import (
	"fmt"
	"net/http"
	"sync"
)

// Coder is a registered error code: a stable integer, the HTTP status it
// maps to, and a human-readable default message.
type Coder interface {
	Code() int
	HTTPStatus() int
	String() string
}

var (
	mu       sync.RWMutex
	registry = map[int]Coder{}
)

// Register adds c to the registry, overwriting any prior entry for the same
// code.
func Register(c Coder) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.Code()] = c
}

// MustRegister adds c to the registry, panicking if the code is already
// registered with a different message (guards against accidental code
// collisions across handler packages).
func MustRegister(c Coder) {
	mu.Lock()
	defer mu.Unlock()
	if existing, ok := registry[c.Code()]; ok && existing.String() != c.String() {
		panic(fmt.Sprintf("errorx: code %d already registered as %q", c.Code(), existing.String()))
	}
	registry[c.Code()] = c
}

// Lookup returns the Coder for code, or a generic 500 Coder if unregistered.
func Lookup(code int) Coder {
	mu.RLock()
	defer mu.RUnlock()
	if c, ok := registry[code]; ok {
		return c
	}
	return unknownCoder{code}
}

type unknownCoder struct{ code int }

func (u unknownCoder) Code() int         { return u.code }
func (u unknownCoder) HTTPStatus() int   { return http.StatusInternalServerError }
func (u unknownCoder) String() string    { return "internal error" }

// codedError pairs a Coder with the causing error and optional detail text.
type codedError struct {
	coder  Coder
	detail string
	cause  error
}

func (e *codedError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("%s: %s", e.coder.String(), e.detail)
	}
	return e.coder.String()
}

func (e *codedError) Unwrap() error { return e.cause }

// CoderOf extracts the Coder associated with err, if any, or a generic
// internal-error Coder otherwise.
func CoderOf(err error) Coder {
	if ce, ok := err.(*codedError); ok {
		return ce.coder
	}
	return unknownCoder{-1}
}

// WithCode builds a new error carrying the given registered code and detail.
func WithCode(code int, format string, args ...interface{}) error {
	return &codedError{coder: Lookup(code), detail: fmt.Sprintf(format, args...)}
}

// WrapC attaches a registered code to an existing error, preserving it as
// the unwrap chain's cause.
func WrapC(cause error, code int, format string, args ...interface{}) error {
	detail := fmt.Sprintf(format, args...)
	if cause != nil {
		detail = fmt.Sprintf("%s: %v", detail, cause)
	}
	return &codedError{coder: Lookup(code), detail: detail, cause: cause}
}
