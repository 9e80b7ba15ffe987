package pipeline

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"postloom/internal/services"
	"postloom/internal/services/facebook"
)

// PostClient is the surface the publishing stage needs from the Graph client.
type PostClient interface {
	Configured() bool
	PostPhoto(ctx context.Context, caption, imagePath string) (facebook.PostResponse, error)
}

// PostStage publishes a caption and image to a Facebook page, reporting a
// simulated post when no page token is configured or the API rejects the
// upload. A simulated post never blocks the run.
type PostStage struct {
	client PostClient
	logger *slog.Logger
}

// NewPostStage constructs the publishing stage.
func NewPostStage(client PostClient, logger *slog.Logger) *PostStage {
	return &PostStage{client: client, logger: logger}
}

// Publish sends the caption and image to the page feed.
func (s *PostStage) Publish(ctx context.Context, caption, imagePath string) (PostResult, error) {
	if strings.TrimSpace(caption) == "" {
		return PostResult{}, services.Wrap(services.ErrValidation, "post", "publish", "caption must not be empty", nil)
	}
	if strings.TrimSpace(imagePath) == "" {
		return PostResult{}, services.Wrap(services.ErrValidation, "post", "publish", "image path must not be empty", nil)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return PostResult{}, services.Wrap(services.ErrValidation, "post", "publish", "image not readable", err)
	}

	base := PostResult{
		Platform:  "facebook",
		Caption:   caption,
		ImagePath: imagePath,
	}

	if !s.client.Configured() {
		s.logger.Info("page token not configured, simulating post")
		return s.simulated(base, "page token not configured"), nil
	}

	resp, err := s.client.PostPhoto(ctx, caption, imagePath)
	if err != nil {
		wrapped := services.Wrap(services.ErrExternalService, "post", "publish", "graph upload failed", err)
		s.logger.Warn("post failed, reporting simulated result", "error", wrapped)
		return s.simulated(base, err.Error()), nil
	}

	postID := resp.PostID
	if postID == "" {
		postID = resp.ID
	}
	s.logger.Info("post published", "post_id", postID)
	base.StageResult = StageResult{Provenance: ProvenanceReal}
	base.Status = "posted"
	base.PostID = postID
	return base, nil
}

func (s *PostStage) simulated(base PostResult, reason string) PostResult {
	base.StageResult = StageResult{Provenance: ProvenanceSimulated, Reason: reason}
	base.Status = "simulated"
	return base
}
