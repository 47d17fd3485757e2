package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// IsRetryable reports whether err is a transient provider failure worth
// retrying: rate limits, server errors, and network timeouts. Auth and
// validation failures are permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.StatusCode)
	}

	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return retryableStatus(oaErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func retryableStatus(code int) bool {
	switch {
	case code == http.StatusTooManyRequests:
		return true
	case code == http.StatusRequestTimeout:
		return true
	case code >= 500 && code <= 599:
		return true
	default:
		return false
	}
}
