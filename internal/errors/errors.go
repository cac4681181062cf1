package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Unwrap = errors.Unwrap
)

// Kind classifies why a transfer ended without completing.
type Kind string

const (
	KindHTTPStatus Kind = "HTTPStatusError" // non-2xx response, nothing written
	KindTransferIO Kind = "TransferIOError" // network or disk failure mid-stream
	KindCancelled  Kind = "Cancelled"       // cooperative stop requested by the caller
)

// TransferError describes the terminal failure of a single transfer.
type TransferError struct {
	Err        error
	Kind       Kind
	Resource   string
	StatusCode int
	Timestamp  time.Time
}

// Error renders "<kind>: <message>", the form stored on the task record.
func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// NewHTTPStatusError wraps a non-success response.
func NewHTTPStatusError(err error, resource string, statusCode int) *TransferError {
	return &TransferError{
		Err:        err,
		Kind:       KindHTTPStatus,
		Resource:   resource,
		StatusCode: statusCode,
		Timestamp:  time.Now(),
	}
}

// NewTransferIOError wraps a network or filesystem failure.
func NewTransferIOError(err error, resource string) *TransferError {
	return &TransferError{
		Err:       err,
		Kind:      KindTransferIO,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

// NewCancelledError marks a transfer stopped through its cancellation handle.
func NewCancelledError(err error, resource string) *TransferError {
	if err == nil {
		err = context.Canceled
	}

	return &TransferError{
		Err:       err,
		Kind:      KindCancelled,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

// KindOf returns the kind of a TransferError anywhere in the chain.
func KindOf(err error) (Kind, bool) {
	var te *TransferError
	if As(err, &te) {
		return te.Kind, true
	}

	return "", false
}

// IsCancelled reports whether err is a cooperative cancellation.
func IsCancelled(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindCancelled
}

// GetStatusCode extracts the HTTP status code from an error if available.
func GetStatusCode(err error) (int, bool) {
	var te *TransferError
	if As(err, &te) && te.Kind == KindHTTPStatus {
		return te.StatusCode, true
	}

	return 0, false
}
