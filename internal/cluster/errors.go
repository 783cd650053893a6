package cluster

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Code classifies a cluster API failure for the presentation layer.
type Code string

const (
	// ErrUnreachable covers total data-acquisition failure: network, DNS,
	// TLS, or API server errors. The dashboard must render this as
	// "cluster unreachable", never as an empty-but-healthy view.
	ErrUnreachable Code = "CLUSTER_UNREACHABLE"
	ErrAuthFailed  Code = "AUTH_FAILED"
	ErrForbidden   Code = "FORBIDDEN"
	ErrNotFound    Code = "NOT_FOUND"
	ErrConflict    Code = "CONFLICT"
	ErrTimeout     Code = "TIMEOUT"
)

// ClusterError wraps a Kubernetes API error with a classification code and
// the operation that failed.
type ClusterError struct {
	Code      Code
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ClusterError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Code, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility.
func (e *ClusterError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the classification code from an error, or ErrUnreachable
// when the error was never classified.
func CodeOf(err error) Code {
	var ce *ClusterError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrUnreachable
}

// classify converts a raw K8s API error into a *ClusterError.
// Returns nil for a nil error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	code := ErrUnreachable
	switch {
	case apierrors.IsUnauthorized(err):
		code = ErrAuthFailed
	case apierrors.IsForbidden(err):
		code = ErrForbidden
	case apierrors.IsNotFound(err):
		code = ErrNotFound
	case apierrors.IsConflict(err):
		code = ErrConflict
	case apierrors.IsTimeout(err) || apierrors.IsServerTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		code = ErrTimeout
	}

	return &ClusterError{Code: code, Operation: op, Err: err}
}
