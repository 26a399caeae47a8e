package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// CacheErrorMessage describes an unreachable or failing tool cache.
	CacheErrorMessage = "tool cache unavailable"
	// CacheMissMessage describes a tool result that is not cached.
	CacheMissMessage = "tool cache entry not found"
	// CacheTimeoutMessage describes a tool cache call that ran out of time.
	CacheTimeoutMessage = "tool cache timed out"
	// UpstreamErrorMessage describes failures of an external data service.
	UpstreamErrorMessage = "upstream service failed"
	// ModelErrorMessage describes a failed language-model call.
	ModelErrorMessage = "language model call failed"
)

var (
	// ErrUnknownTool is returned when the planner requests a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrMissingTripDetails signals that a node needed trip fields that are absent.
	ErrMissingTripDetails = errors.New("missing trip details")
	// ErrNotFound signals that an external lookup (location, station, journey) found nothing.
	ErrNotFound = errors.New("not found")
	// ErrNoData signals that an external service answered without usable data.
	ErrNoData = errors.New("no data")
)

// AppError wraps an underlying error with an HTTP-like status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapUpstream wraps a failure of an external data service. Not-found style
// errors keep a 404 status so callers can tell them apart from outages.
func WrapUpstream(service string, err error) error {
	if err == nil {
		return nil
	}
	status := http.StatusBadGateway
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoData) {
		status = http.StatusNotFound
	}
	return New(err, status, fmt.Sprintf("%s: %s", service, UpstreamErrorMessage))
}

// WrapModel wraps a failed language-model call made by the given node.
func WrapModel(node string, err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, fmt.Sprintf("%s: %s", node, ModelErrorMessage))
}

// StatusOf returns the status carried by an AppError in the chain, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
