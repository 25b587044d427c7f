package billing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	headerID        = "svix-id"
	headerTimestamp = "svix-timestamp"
	headerSignature = "svix-signature"
)

var (
	ErrMissingHeaders   = errors.New("missing svix headers")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Verifier checks Svix webhook signatures as sent by Clerk.
type Verifier struct {
	wh *svix.Webhook
}

// NewVerifier accepts a "whsec_<base64>" signing secret.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if strings.TrimPrefix(secret, "whsec_") == "" {
		return nil, errors.New("webhook secret is empty")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Headers holds the three Svix delivery headers.
type Headers struct {
	ID        string
	Timestamp string
	Signature string
}

// HeadersFrom extracts the Svix headers from an HTTP request.
func HeadersFrom(h http.Header) Headers {
	return Headers{
		ID:        strings.TrimSpace(h.Get(headerID)),
		Timestamp: strings.TrimSpace(h.Get(headerTimestamp)),
		Signature: strings.TrimSpace(h.Get(headerSignature)),
	}
}

// Complete reports whether all three headers are present.
func (h Headers) Complete() bool {
	return h.ID != "" && h.Timestamp != "" && h.Signature != ""
}

func (h Headers) httpHeader() http.Header {
	out := make(http.Header, 3)
	out.Set(headerID, h.ID)
	out.Set(headerTimestamp, h.Timestamp)
	out.Set(headerSignature, h.Signature)
	return out
}

// Verify checks the delivery signature and that its timestamp is recent.
func (v *Verifier) Verify(h Headers, body []byte) error {
	if !h.Complete() {
		return ErrMissingHeaders
	}
	if err := v.wh.Verify(body, h.httpHeader()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// Sign returns the "v1,<base64>" header value for a delivery.
func (v *Verifier) Sign(id string, timestamp time.Time, body []byte) (string, error) {
	return v.wh.Sign(id, timestamp, body)
}
