package domain

import (
	"encoding/base64"
	"fmt"
)

// ImagePayload is an image in transit. Data holds the base64 text exactly as
// received; it is only decoded by the transport that talks to the model.
type ImagePayload struct {
	MimeType string
	Data     string
}

// IsZero reports whether the payload carries no image.
func (p ImagePayload) IsZero() bool {
	return p.MimeType == "" && p.Data == ""
}

// Bytes decodes the base64 payload.
func (p ImagePayload) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return raw, nil
}

// ContentPart is one part of a model response: either text or an inline image.
type ContentPart struct {
	Text  string
	Image *ImagePayload
}
