package genai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdk "google.golang.org/genai"

	"photorestore/internal/domain"
)

type fakeGenerator struct {
	resp        *sdk.GenerateContentResponse
	err         error
	gotModel    string
	gotContents []*sdk.Content
	calls       int
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (*sdk.GenerateContentResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotContents = contents
	return f.resp, f.err
}

func newTestClient(gen *fakeGenerator) *Client {
	return &Client{model: "gemini-test", generator: gen, logger: zerolog.Nop()}
}

func responseWith(parts ...*sdk.Part) *sdk.GenerateContentResponse {
	return &sdk.GenerateContentResponse{
		Candidates: []*sdk.Candidate{{Content: &sdk.Content{Role: "model", Parts: parts}}},
	}
}

var input = domain.ImagePayload{MimeType: "image/png", Data: "AQID"}

func TestGenerateContentBuildsMultipartRequest(t *testing.T) {
	gen := &fakeGenerator{resp: responseWith(sdk.NewPartFromText("ok"))}
	c := newTestClient(gen)

	_, err := c.GenerateContent(context.Background(), "restore it", input)
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", gen.gotModel)
	require.Len(t, gen.gotContents, 1)
	parts := gen.gotContents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "restore it", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, parts[1].InlineData.Data)
}

func TestGenerateContentConvertsPartsInOrder(t *testing.T) {
	gen := &fakeGenerator{resp: responseWith(
		sdk.NewPartFromText("first "),
		&sdk.Part{Text: "hidden reasoning", Thought: true},
		sdk.NewPartFromBytes([]byte{9, 9}, "image/png"),
		sdk.NewPartFromText("second"),
		sdk.NewPartFromBytes([]byte{7}, "image/jpeg"),
	)}
	parts, err := newTestClient(gen).GenerateContent(context.Background(), "p", input)
	require.NoError(t, err)

	require.Len(t, parts, 4)
	assert.Equal(t, "first ", parts[0].Text)
	require.NotNil(t, parts[1].Image)
	assert.Equal(t, domain.ImagePayload{MimeType: "image/png", Data: "CQk="}, *parts[1].Image)
	assert.Equal(t, "second", parts[2].Text)
	assert.Equal(t, domain.ImagePayload{MimeType: "image/jpeg", Data: "Bw=="}, *parts[3].Image)
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	for name, resp := range map[string]*sdk.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"nil content":   {Candidates: []*sdk.Candidate{{}}},
	} {
		t.Run(name, func(t *testing.T) {
			parts, err := newTestClient(&fakeGenerator{resp: resp}).GenerateContent(context.Background(), "p", input)
			require.NoError(t, err)
			assert.Empty(t, parts)
		})
	}
}

func TestGenerateContentBlockedPrompt(t *testing.T) {
	resp := &sdk.GenerateContentResponse{
		PromptFeedback: &sdk.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
	}
	_, err := newTestClient(&fakeGenerator{resp: resp}).GenerateContent(context.Background(), "p", input)
	assert.ErrorIs(t, err, domain.ErrContentBlocked)
}

func TestGenerateContentTranslatesAPIError(t *testing.T) {
	apiErr := sdk.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}
	gen := &fakeGenerator{err: fmt.Errorf("send: %w", apiErr)}

	_, err := newTestClient(gen).GenerateContent(context.Background(), "p", input)

	var modelErr *domain.ModelAPIError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, 429, modelErr.StatusCode)
	assert.Equal(t, "RESOURCE_EXHAUSTED", modelErr.Status)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestGenerateContentWrapsTransportError(t *testing.T) {
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	_, err := newTestClient(gen).GenerateContent(context.Background(), "p", input)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateContentRejectsInvalidBase64(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := newTestClient(gen).GenerateContent(context.Background(), "p", domain.ImagePayload{MimeType: "image/png", Data: "***"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.Zero(t, gen.calls)
}

func TestNewClientWithoutKeyIsNotConfigured(t *testing.T) {
	c, err := NewClient(context.Background(), Options{})
	require.NoError(t, err)
	assert.False(t, c.Configured())
	assert.Equal(t, defaultModel, c.Model())

	_, err = c.GenerateContent(context.Background(), "p", input)
	assert.ErrorIs(t, err, domain.ErrModelNotConfigured)
}
