package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"postloom/internal/services"
)

// ImageClient is the surface the image stage needs from the generation client.
type ImageClient interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// ImageStage turns a caption into an image file, writing a solid-color
// placeholder when the generation service cannot deliver. A file exists at the
// output path on both paths; any existing file is overwritten.
type ImageStage struct {
	client ImageClient
	logger *slog.Logger
}

// NewImageStage constructs the image stage.
func NewImageStage(client ImageClient, logger *slog.Logger) *ImageStage {
	return &ImageStage{client: client, logger: logger}
}

// Generate produces an image for the caption at the output path.
func (s *ImageStage) Generate(ctx context.Context, caption, outputPath string) (ArtifactResult, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ArtifactResult{}, services.Wrap(services.ErrValidation, "image", "generate", "caption must not be empty", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return ArtifactResult{}, services.Wrap(services.ErrValidation, "image", "generate", "output path must not be empty", nil)
	}

	if !s.client.Configured() {
		return s.fallback(outputPath, "api key missing")
	}

	data, err := s.client.Generate(ctx, caption)
	if err != nil {
		wrapped := services.Wrap(services.ErrExternalService, "image", "generate", "image request failed", err)
		s.logger.Warn("image service failed, writing placeholder", "output", outputPath, "error", wrapped)
		return s.fallback(outputPath, err.Error())
	}

	if err := writeArtifact(outputPath, data); err != nil {
		s.logger.Warn("failed to write generated image, writing placeholder", "output", outputPath, "error", err)
		return s.fallback(outputPath, err.Error())
	}

	s.logger.Info("image generated", "output", outputPath, "bytes", len(data))
	return ArtifactResult{
		StageResult: StageResult{Provenance: ProvenanceReal},
		Path:        outputPath,
	}, nil
}

func (s *ImageStage) fallback(outputPath, reason string) (ArtifactResult, error) {
	if err := writePlaceholderPNG(outputPath); err != nil {
		return ArtifactResult{}, fmt.Errorf("image fallback: %w", err)
	}
	s.logger.Info("placeholder image written", "output", outputPath, "reason", reason)
	return ArtifactResult{
		StageResult: StageResult{Provenance: ProvenanceSimulated, Reason: reason},
		Path:        outputPath,
	}, nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
