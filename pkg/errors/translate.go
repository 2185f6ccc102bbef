package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ServerError is the canonical shape of every failure sent to a client.
type ServerError struct {
	Code        ErrorCode `json:"code"`
	Status      int       `json:"-"`
	Description string    `json:"description"`
}

type envelope struct {
	Error ServerError `json:"error"`
}

var (
	ErrEndpointNotFound = New(ErrCodeEndpointNotFound, "endpoint not found")
	ErrInvalidArgument  = New(ErrCodeInvalidArgument, "invalid argument")
)

const internalDescription = "internal server error"

// Options controls how internal faults are described to clients.
type Options struct {
	// HideInternal replaces the description of internal faults with a
	// generic message. The cause is still logged.
	HideInternal bool
}

type optionsKey struct{}

// Translate maps any error to its ServerError.
func Translate(err error, opts Options) ServerError {
	var e *Error
	if errors.As(err, &e) && e.Code != ErrCodeInternal {
		return ServerError{Code: e.Code, Status: e.HTTPStatusCode(), Description: e.Message}
	}

	var c Coder
	if errors.As(err, &c) && c.ErrorCode() != ErrCodeInternal {
		return ServerError{Code: c.ErrorCode(), Status: MapErrorCodeToHTTPStatus(c.ErrorCode()), Description: c.Error()}
	}

	desc := internalDescription
	if !opts.HideInternal && err != nil {
		desc = fmt.Sprintf("%s: %v", internalDescription, err)
	}
	return ServerError{Code: ErrCodeInternal, Status: http.StatusInternalServerError, Description: desc}
}

// Responder installs the translation options for the request and wraps the
// writer so Render can tell whether a response has already been started.
func Responder(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), optionsKey{}, opts)
			ww, ok := w.(middleware.WrapResponseWriter)
			if !ok {
				ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}
			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

func optionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)
	return opts
}

func written(w http.ResponseWriter) bool {
	ww, ok := w.(middleware.WrapResponseWriter)
	return ok && ww.Status() != 0
}

// Render translates err and writes the error envelope. A response that has
// already been started is left untouched.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	se := Translate(err, optionsFrom(r.Context()))

	if se.Code == ErrCodeInternal {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		slog.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "code", se.Code, "err", err)
	}

	if written(w) {
		slog.Warn("Response already written, dropping error", "path", r.URL.Path, "code", se.Code)
		return
	}

	render.Status(r, se.Status)
	render.JSON(w, r, envelope{Error: se})
}

// EndpointNotFound is a chi NotFound handler.
func EndpointNotFound(w http.ResponseWriter, r *http.Request) {
	Render(w, r, ErrEndpointNotFound)
}

// MethodNotAllowed is a chi MethodNotAllowed handler. An undeclared
// method on a known path is reported the same as an unknown path.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Render(w, r, ErrEndpointNotFound)
}

// Recoverer turns panics into internal_server_error responses.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			slog.Error("Recovered from panic", "panic", rvr, "stack", string(debug.Stack()))
			Render(w, r, fmt.Errorf("panic: %v", rvr))
		}()
		next.ServeHTTP(w, r)
	})
}
