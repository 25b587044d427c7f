package domain

// OutcomeKind enumerates the terminal states of a restoration attempt.
type OutcomeKind string

const (
	OutcomeRestored     OutcomeKind = "restored"
	OutcomeAnalysisOnly OutcomeKind = "analysis_only"
	OutcomeFailed       OutcomeKind = "failed"
)

// FailureReason classifies why a restoration attempt degraded to OutcomeFailed.
type FailureReason string

const (
	ReasonNone             FailureReason = ""
	ReasonTimeout          FailureReason = "timeout"
	ReasonCanceled         FailureReason = "canceled"
	ReasonNetwork          FailureReason = "network"
	ReasonQuota            FailureReason = "quota"
	ReasonPermissionDenied FailureReason = "permission_denied"
	ReasonRejected         FailureReason = "rejected"
	ReasonUnavailable      FailureReason = "unavailable"
	ReasonBlocked          FailureReason = "blocked"
	ReasonInvalidPayload   FailureReason = "invalid_payload"
	ReasonNotConfigured    FailureReason = "not_configured"
	ReasonEmptyResponse    FailureReason = "empty_response"
	ReasonModelError       FailureReason = "model_error"
)

// Outcome is the result of one restoration attempt. Image is never zero: on
// anything but OutcomeRestored it is the caller's original payload.
type Outcome struct {
	Kind     OutcomeKind
	Image    ImagePayload
	Analysis string
	Message  string
	Reason   FailureReason
}
