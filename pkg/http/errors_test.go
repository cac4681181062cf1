package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	httpmod "github.com/NamanBalaji/debridget/pkg/http"
)

// fakeNetErr simulates a net.Error to test ClassifyError behavior.
type fakeNetErr struct{}

func (f *fakeNetErr) Error() string   { return "simulated network error" }
func (f *fakeNetErr) Timeout() bool   { return false }
func (f *fakeNetErr) Temporary() bool { return false }

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"NotFound 404", 404, httpmod.ErrResourceNotFound},
		{"Forbidden 403", 403, httpmod.ErrAccessDenied},
		{"Unauthorized 401", 401, httpmod.ErrAuthentication},
		{"Gone 410", 410, httpmod.ErrGone},
		{"TooManyRequests 429", 429, httpmod.ErrTooManyRequests},
		{"ServerError 500", 500, httpmod.ErrServerProblem},
		{"ServerError 503", 503, httpmod.ErrServerProblem},
		{"ClientError 405", 405, httpmod.ErrClientRequest},
		{"ClientError 400", 400, httpmod.ErrClientRequest},
		{"Redirect 302", 302, httpmod.ErrUnexpectedStatus},
		{"OK 200", 200, nil},
		{"PartialContent 206", 206, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := httpmod.ClassifyHTTPError(tt.statusCode)
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("ClassifyHTTPError(%d) = %v; want %v", tt.statusCode, got, tt.wantErr)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name    string
		input   error
		wantErr error
	}{
		{"Nil error", nil, nil},
		{"ContextCanceled", context.Canceled, context.Canceled},
		{"DeadlineExceeded", context.DeadlineExceeded, httpmod.ErrTimeout},
		{"EOF", io.EOF, httpmod.ErrUnexpectedEOF},
		{"UnexpectedEOF", io.ErrUnexpectedEOF, httpmod.ErrUnexpectedEOF},
		{"NetError", &fakeNetErr{}, httpmod.ErrNetworkProblem},
		{"Other error", errors.New("some random error"), httpmod.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := httpmod.ClassifyError(tt.input)
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("ClassifyError(%v) = %v; want %v", tt.input, got, tt.wantErr)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("stream: %w", &httpmod.StatusError{Code: http.StatusNotFound, Status: "404 Not Found"})

	if !errors.Is(err, httpmod.ErrResourceNotFound) {
		t.Errorf("expected %v to match ErrResourceNotFound", err)
	}

	if errors.Is(err, httpmod.ErrServerProblem) {
		t.Errorf("404 must not match ErrServerProblem")
	}

	var se *httpmod.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("errors.As failed for %v", err)
	}

	if got := se.Error(); got != "unexpected status 404 Not Found" {
		t.Errorf("Error() = %q", got)
	}

	bare := &httpmod.StatusError{Code: http.StatusBadGateway}
	if got := bare.Error(); got != "unexpected status 502 Bad Gateway" {
		t.Errorf("Error() = %q", got)
	}
}
