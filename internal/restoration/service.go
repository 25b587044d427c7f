// Package restoration owns the request/response lifecycle against the
// generative model: it builds the prompt, makes exactly one model call and
// turns whatever comes back into a domain.Outcome.
package restoration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"photorestore/internal/domain"
)

const (
	MessageRestored     = "Photo restored successfully with professional quality!"
	MessageAnalysisOnly = "Image analysis completed. Image generation may require additional configuration."
	MessageFailed       = "Unable to restore image. Please ensure your API key has image generation access enabled."
)

// Model is the external generative model. Implementations return the response
// parts in the order the model produced them.
type Model interface {
	GenerateContent(ctx context.Context, prompt string, image domain.ImagePayload) ([]domain.ContentPart, error)
}

// Observer receives one notification per Submit call.
type Observer interface {
	RecordOutcome(kind domain.OutcomeKind, reason domain.FailureReason, duration time.Duration)
}

// Service submits restoration requests to a Model.
type Service struct {
	model      Model
	prompt     string
	modelLabel string
	timeout    time.Duration
	observer   Observer
	logger     zerolog.Logger
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithPrompt replaces the default restoration template.
func WithPrompt(p Prompt) Option {
	return func(s *Service) { s.prompt = p.Build() }
}

// WithTimeout bounds each model call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithObserver registers an outcome observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the logger used for model failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithModelLabel names the model in the default analysis text.
func WithModelLabel(label string) Option {
	return func(s *Service) { s.modelLabel = strings.TrimSpace(label) }
}

// NewService constructs a Service around model.
func NewService(model Model, opts ...Option) *Service {
	s := &Service{
		model:      model,
		prompt:     DefaultPrompt().Build(),
		modelLabel: "Gemini",
		logger:     zerolog.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prompt returns the rendered instruction text sent with every request.
func (s *Service) Prompt() string {
	return s.prompt
}

// Submit runs one restoration attempt. It never returns an error: model
// failures degrade to an OutcomeFailed carrying the original payload.
func (s *Service) Submit(ctx context.Context, payload domain.ImagePayload) (out domain.Outcome) {
	start := s.now()
	defer func() {
		if s.observer != nil {
			s.observer.RecordOutcome(out.Kind, out.Reason, s.now().Sub(start))
		}
	}()

	parts, err := s.generate(ctx, payload)
	if err != nil {
		reason := Classify(err)
		s.logger.Error().
			Err(err).
			Str("reason", string(reason)).
			Msg("restoration: model call failed")
		return failed(payload, reason)
	}
	return s.interpret(payload, parts)
}

func (s *Service) generate(ctx context.Context, payload domain.ImagePayload) (parts []domain.ContentPart, err error) {
	if s.model == nil {
		return nil, domain.ErrModelNotConfigured
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			parts = nil
			err = fmt.Errorf("%w: model panicked: %v", domain.ErrModelUnavailable, r)
		}
	}()
	return s.model.GenerateContent(ctx, s.prompt, payload)
}

// interpret walks the parts in order. Text parts are concatenated; the last
// inline image wins.
func (s *Service) interpret(original domain.ImagePayload, parts []domain.ContentPart) domain.Outcome {
	var (
		analysis strings.Builder
		restored *domain.ImagePayload
	)
	for _, part := range parts {
		if part.Image != nil && part.Image.Data != "" {
			img := *part.Image
			if img.MimeType == "" {
				img.MimeType = "image/png"
			}
			restored = &img
			continue
		}
		analysis.WriteString(part.Text)
	}

	text := analysis.String()
	switch {
	case restored != nil:
		if text == "" {
			text = fmt.Sprintf("Image successfully restored using %s.", s.modelLabel)
		}
		return domain.Outcome{
			Kind:     domain.OutcomeRestored,
			Image:    *restored,
			Analysis: text,
			Message:  MessageRestored,
		}
	case strings.TrimSpace(text) != "":
		return domain.Outcome{
			Kind:     domain.OutcomeAnalysisOnly,
			Image:    original,
			Analysis: text,
			Message:  MessageAnalysisOnly,
		}
	default:
		s.logger.Warn().Int("parts", len(parts)).Msg("restoration: model returned nothing usable")
		return failed(original, domain.ReasonEmptyResponse)
	}
}

func failed(original domain.ImagePayload, reason domain.FailureReason) domain.Outcome {
	return domain.Outcome{
		Kind:    domain.OutcomeFailed,
		Image:   original,
		Message: MessageFailed,
		Reason:  reason,
	}
}
