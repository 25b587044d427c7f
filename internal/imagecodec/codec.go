// Package imagecodec converts between data URLs and image payloads.
package imagecodec

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"photorestore/internal/domain"
)

var dataURLPattern = regexp.MustCompile(`^data:([A-Za-z+/-]+);base64,(.+)$`)

// Decode splits a data URL into its MIME type and base64 payload. The payload
// is returned as-is; it is not base64-decoded here.
func Decode(dataURL string) (domain.ImagePayload, error) {
	matches := dataURLPattern.FindStringSubmatch(dataURL)
	if len(matches) != 3 {
		return domain.ImagePayload{}, fmt.Errorf("%w: not a base64 data url", domain.ErrInvalidImageFormat)
	}
	return domain.ImagePayload{MimeType: matches[1], Data: matches[2]}, nil
}

// Encode formats a MIME type and base64 payload as a data URL.
func Encode(mimeType, base64Data string) string {
	return "data:" + mimeType + ";base64," + base64Data
}

// EncodePayload is Encode for a payload value.
func EncodePayload(p domain.ImagePayload) string {
	return Encode(p.MimeType, p.Data)
}

// EncodeBytes base64-encodes raw image bytes into a data URL.
func EncodeBytes(mimeType string, raw []byte) string {
	return Encode(mimeType, base64.StdEncoding.EncodeToString(raw))
}
