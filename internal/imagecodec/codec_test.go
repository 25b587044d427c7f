package imagecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photorestore/internal/domain"
)

func TestDecodeValid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMime string
		wantData string
	}{
		{name: "png", input: "data:image/png;base64,AAAA", wantMime: "image/png", wantData: "AAAA"},
		{name: "jpeg", input: "data:image/jpeg;base64,/9j/4AAQ", wantMime: "image/jpeg", wantData: "/9j/4AAQ"},
		{name: "svg plus", input: "data:image/svg+xml;base64,PHN2Zz4=", wantMime: "image/svg+xml", wantData: "PHN2Zz4="},
		{name: "dash in mime", input: "data:image/x-icon;base64,AAAB", wantMime: "image/x-icon", wantData: "AAAB"},
		{name: "payload not validated", input: "data:image/png;base64,***", wantMime: "image/png", wantData: "***"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMime, got.MimeType)
			assert.Equal(t, tc.wantData, got.Data)
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"not-a-data-url",
		"data:image/png,AAAA",
		"data:image/png;base64,",
		"data:;base64,AAAA",
		"data:image/jp2;base64,AAAA",
		"DATA:image/png;base64,AAAA",
		" data:image/png;base64,AAAA",
		"data:image/png;base64,AA\nAA",
		"data:image/png;charset=utf-8;base64,AAAA",
	}
	for _, input := range inputs {
		_, err := Decode(input)
		require.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, domain.ErrInvalidImageFormat, "input %q", input)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pairs := []domain.ImagePayload{
		{MimeType: "image/png", Data: "AAAA"},
		{MimeType: "image/webp", Data: "UklGRh4AAABXRUJQ"},
		{MimeType: "image/svg+xml", Data: "PHN2Zz4="},
	}
	for _, p := range pairs {
		got, err := Decode(Encode(p.MimeType, p.Data))
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.Equal(t, Encode(p.MimeType, p.Data), EncodePayload(p))
	}
}

func TestEncodeBytes(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQID", EncodeBytes("image/png", []byte{1, 2, 3}))
}

func TestPayloadBytes(t *testing.T) {
	raw, err := domain.ImagePayload{MimeType: "image/png", Data: "AQID"}.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	_, err = domain.ImagePayload{MimeType: "image/png", Data: "***"}.Bytes()
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
