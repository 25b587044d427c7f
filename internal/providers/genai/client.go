package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	sdk "google.golang.org/genai"

	"photorestore/internal/domain"
)

const defaultModel = "gemini-3-pro-image-preview"

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// contentGenerator is the subset of the SDK's Models service we call.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (*sdk.GenerateContentResponse, error)
}

// Client adapts the Gemini SDK to restoration.Model. A client built without
// an API key stays usable but fails every call with
// domain.ErrModelNotConfigured.
type Client struct {
	model     string
	generator contentGenerator
	logger    zerolog.Logger
}

// NewClient constructs a Gemini client. The SDK client is only created when an
// API key is present.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	c := &Client{model: model, logger: logger}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return c, nil
	}

	cfg := &sdk.ClientConfig{
		APIKey:     apiKey,
		Backend:    sdk.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); baseURL != "" {
		cfg.HTTPOptions = sdk.HTTPOptions{BaseURL: baseURL}
	}
	sc, err := sdk.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.generator = sc.Models
	return c, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// Configured reports whether calls will reach the API.
func (c *Client) Configured() bool {
	return c.generator != nil
}

// GenerateContent sends the prompt and the image as one multi-part user turn
// and returns the first candidate's parts in order.
func (c *Client) GenerateContent(ctx context.Context, prompt string, image domain.ImagePayload) ([]domain.ContentPart, error) {
	if c.generator == nil {
		return nil, domain.ErrModelNotConfigured
	}
	raw, err := image.Bytes()
	if err != nil {
		return nil, err
	}

	contents := []*sdk.Content{
		sdk.NewContentFromParts([]*sdk.Part{
			sdk.NewPartFromText(prompt),
			sdk.NewPartFromBytes(raw, image.MimeType),
		}, sdk.RoleUser),
	}

	resp, err := c.generator.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, translateError(err)
	}

	parts, err := toParts(resp)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("model", c.model).
		Int("parts", len(parts)).
		Msg("genai: generate content completed")
	return parts, nil
}

func toParts(resp *sdk.GenerateContentResponse) ([]domain.ContentPart, error) {
	if resp == nil {
		return nil, nil
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, nil
	}

	var parts []domain.ContentPart
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			parts = append(parts, domain.ContentPart{Image: &domain.ImagePayload{
				MimeType: part.InlineData.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
			}})
			continue
		}
		if part.Text != "" {
			parts = append(parts, domain.ContentPart{Text: part.Text})
		}
	}
	return parts, nil
}

func translateError(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case sdk.APIError:
			return fmt.Errorf("gemini generate content: %w", &domain.ModelAPIError{StatusCode: v.Code, Status: v.Status, Message: v.Message})
		case *sdk.APIError:
			if v != nil {
				return fmt.Errorf("gemini generate content: %w", &domain.ModelAPIError{StatusCode: v.Code, Status: v.Status, Message: v.Message})
			}
		}
	}
	return fmt.Errorf("gemini generate content: %w", err)
}
