package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// Tool cache operations named in wrapped errors.
const (
	CacheRead   = "read"
	CacheWrite  = "write"
	CacheScan   = "scan"
	CacheDelete = "delete"
)

// WrapCache wraps a failed tool-cache operation on tool's results.
// A missing entry is 404, a timeout 504 and anything else a 502 from the
// cache backend.
func WrapCache(op, tool string, err error) error {
	if err == nil {
		return nil
	}

	var status int
	message := CacheErrorMessage
	switch {
	case errors.Is(err, redis.Nil):
		status, message = http.StatusNotFound, CacheMissMessage
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, CacheTimeoutMessage
	default:
		status = http.StatusBadGateway
	}
	return New(err, status, fmt.Sprintf("%s %s: %s", tool, op, message))
}
