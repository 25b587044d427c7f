package domain

import (
	"encoding/json"
	"time"
)

// BillingEventType enumerates the billing webhook events we act on.
type BillingEventType string

const (
	BillingSubscriptionCreated BillingEventType = "subscription.created"
	BillingSubscriptionUpdated BillingEventType = "subscription.updated"
	BillingSubscriptionDeleted BillingEventType = "subscription.deleted"
	BillingPaymentSucceeded    BillingEventType = "payment.succeeded"
	BillingPaymentFailed       BillingEventType = "payment.failed"
)

// Known reports whether the event type is one the service handles explicitly.
func (t BillingEventType) Known() bool {
	switch t {
	case BillingSubscriptionCreated, BillingSubscriptionUpdated, BillingSubscriptionDeleted,
		BillingPaymentSucceeded, BillingPaymentFailed:
		return true
	default:
		return false
	}
}

// BillingEvent is a verified webhook delivery.
type BillingEvent struct {
	MessageID  string
	Type       BillingEventType
	Data       json.RawMessage
	ReceivedAt time.Time
}
