package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"postloom/internal/services"
	"postloom/internal/services/ffmpeg"
)

// VideoClient is the surface the video stage needs from the encoder wrapper.
type VideoClient interface {
	Stitch(ctx context.Context, images []string, output string) error
}

// VideoStage stitches still images into a short clip, writing a plain-text
// marker file when the encoder is missing or fails. A file exists at the
// output path on both paths; playability is only guaranteed on the real path.
type VideoStage struct {
	client VideoClient
	logger *slog.Logger
}

// NewVideoStage constructs the video stage.
func NewVideoStage(client VideoClient, logger *slog.Logger) *VideoStage {
	return &VideoStage{client: client, logger: logger}
}

// Create produces a clip from the ordered images at the output path.
func (s *VideoStage) Create(ctx context.Context, images []string, outputPath string) (ArtifactResult, error) {
	if len(images) == 0 {
		return ArtifactResult{}, services.Wrap(services.ErrValidation, "video", "create", "at least one image required", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return ArtifactResult{}, services.Wrap(services.ErrValidation, "video", "create", "output path must not be empty", nil)
	}
	for _, image := range images {
		if _, err := os.Stat(image); err != nil {
			return ArtifactResult{}, services.Wrap(services.ErrValidation, "video", "create", fmt.Sprintf("image %q not readable", image), err)
		}
	}

	err := s.client.Stitch(ctx, images, outputPath)
	if err == nil {
		s.logger.Info("video stitched", "output", outputPath, "frames", len(images))
		return ArtifactResult{
			StageResult: StageResult{Provenance: ProvenanceReal},
			Path:        outputPath,
		}, nil
	}

	marker := services.ErrExternalService
	if errors.Is(err, ffmpeg.ErrBinaryNotFound) {
		marker = services.ErrToolMissing
	}
	wrapped := services.Wrap(marker, "video", "stitch", "encode failed", err)
	s.logger.Warn("video stitch failed, writing simulated clip marker", "output", outputPath, "error", wrapped)
	return s.fallback(images, outputPath, err.Error())
}

func (s *VideoStage) fallback(images []string, outputPath, reason string) (ArtifactResult, error) {
	marker := fmt.Sprintf(
		"Simulated video output. Install ffmpeg to generate real footage from the source images.\nSource image: %s\nReason: %s\n",
		images[0], reason,
	)
	if err := os.WriteFile(outputPath, []byte(marker), 0o644); err != nil {
		return ArtifactResult{}, fmt.Errorf("video fallback: write marker: %w", err)
	}
	return ArtifactResult{
		StageResult: StageResult{Provenance: ProvenanceSimulated, Reason: reason},
		Path:        outputPath,
	}, nil
}
