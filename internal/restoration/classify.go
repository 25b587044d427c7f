package restoration

import (
	"context"
	"errors"
	"net"
	"net/http"

	"photorestore/internal/domain"
)

// Classify maps a model call error to a failure reason.
func Classify(err error) domain.FailureReason {
	if err == nil {
		return domain.ReasonNone
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ReasonTimeout
	case errors.Is(err, context.Canceled):
		return domain.ReasonCanceled
	case errors.Is(err, domain.ErrModelNotConfigured):
		return domain.ReasonNotConfigured
	case errors.Is(err, domain.ErrInvalidPayload):
		return domain.ReasonInvalidPayload
	case errors.Is(err, domain.ErrContentBlocked):
		return domain.ReasonBlocked
	}

	var apiErr *domain.ModelAPIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.ReasonTimeout
		}
		return domain.ReasonNetwork
	}
	return domain.ReasonModelError
}

func classifyStatus(apiErr *domain.ModelAPIError) domain.FailureReason {
	switch apiErr.Status {
	case "RESOURCE_EXHAUSTED":
		return domain.ReasonQuota
	case "PERMISSION_DENIED", "UNAUTHENTICATED":
		return domain.ReasonPermissionDenied
	case "DEADLINE_EXCEEDED":
		return domain.ReasonTimeout
	}
	switch code := apiErr.StatusCode; {
	case code == http.StatusTooManyRequests:
		return domain.ReasonQuota
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.ReasonPermissionDenied
	case code == http.StatusGatewayTimeout:
		return domain.ReasonTimeout
	case code >= http.StatusInternalServerError:
		return domain.ReasonUnavailable
	case code >= http.StatusBadRequest:
		return domain.ReasonRejected
	default:
		return domain.ReasonModelError
	}
}
