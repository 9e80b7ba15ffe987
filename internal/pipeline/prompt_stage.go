package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"postloom/internal/services"
)

const captionPromptTemplate = "Create a catchy social media post idea about %s"

// CaptionClient is the surface the prompt stage needs from the LLM client.
type CaptionClient interface {
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptStage turns a topic into a post caption, substituting a deterministic
// templated caption whenever the text service cannot deliver.
type PromptStage struct {
	client CaptionClient
	logger *slog.Logger
	titler cases.Caser
}

// NewPromptStage constructs the caption stage.
func NewPromptStage(client CaptionClient, logger *slog.Logger) *PromptStage {
	return &PromptStage{
		client: client,
		logger: logger,
		titler: cases.Title(language.English),
	}
}

// Generate produces a caption for the topic. The only error it returns is a
// validation error for an empty topic; every service failure is absorbed into
// the fallback caption.
func (s *PromptStage) Generate(ctx context.Context, topic string) (CaptionResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return CaptionResult{}, services.Wrap(services.ErrValidation, "prompt", "generate", "topic must not be empty", nil)
	}

	if !s.client.Configured() {
		s.logger.Info("caption service unconfigured, using fallback caption", "topic", topic)
		return s.fallback(topic, "api key missing"), nil
	}

	caption, err := s.client.Complete(ctx, fmt.Sprintf(captionPromptTemplate, topic))
	if err != nil {
		wrapped := services.Wrap(services.ErrExternalService, "prompt", "complete", "caption request failed", err)
		s.logger.Warn("caption service failed, using fallback caption", "topic", topic, "error", wrapped)
		return s.fallback(topic, err.Error()), nil
	}

	caption = strings.TrimSpace(caption)
	if caption == "" {
		s.logger.Warn("caption service returned empty text, using fallback caption", "topic", topic)
		return s.fallback(topic, "empty completion"), nil
	}

	s.logger.Info("caption generated", "topic", topic, "chars", len(caption))
	return CaptionResult{
		StageResult: StageResult{Provenance: ProvenanceReal},
		Caption:     caption,
	}, nil
}

func (s *PromptStage) fallback(topic, reason string) CaptionResult {
	return CaptionResult{
		StageResult: StageResult{Provenance: ProvenanceSimulated, Reason: reason},
		Caption:     fmt.Sprintf("Share an engaging social media post inspired by %s.", s.titler.String(topic)),
	}
}
