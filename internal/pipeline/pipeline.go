package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"postloom/internal/config"
	"postloom/internal/history"
	"postloom/internal/notifications"
	"postloom/internal/services"
	"postloom/internal/services/facebook"
	"postloom/internal/services/ffmpeg"
	"postloom/internal/services/imagegen"
	"postloom/internal/services/llm"
)

const lockFileName = ".postloom.lock"

// Runner sequences the four pipeline stages for a topic and records the
// outcome. One run at a time per workspace; concurrent runs are rejected via
// a lock file rather than queued.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	prompt   *PromptStage
	image    *ImageStage
	video    *VideoStage
	post     *PostStage
	notifier notifications.Service
	store    *history.Store

	captionClient CaptionClient
	imageClient   ImageClient
	videoClient   VideoClient
	postClient    PostClient
}

// RunnerOption overrides a collaborator, primarily for tests.
type RunnerOption func(*Runner)

// WithCaptionClient injects the caption text client.
func WithCaptionClient(client CaptionClient) RunnerOption {
	return func(r *Runner) { r.captionClient = client }
}

// WithImageClient injects the image generation client.
func WithImageClient(client ImageClient) RunnerOption {
	return func(r *Runner) { r.imageClient = client }
}

// WithVideoClient injects the video stitching client.
func WithVideoClient(client VideoClient) RunnerOption {
	return func(r *Runner) { r.videoClient = client }
}

// WithPostClient injects the publishing client.
func WithPostClient(client PostClient) RunnerOption {
	return func(r *Runner) { r.postClient = client }
}

// WithNotifier injects the notification service.
func WithNotifier(notifier notifications.Service) RunnerOption {
	return func(r *Runner) { r.notifier = notifier }
}

// WithHistoryStore injects an already-open history store. The runner takes
// ownership and closes it on Close.
func WithHistoryStore(store *history.Store) RunnerOption {
	return func(r *Runner) { r.store = store }
}

// NewRunner builds a runner with clients derived from the configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	runner := &Runner{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(runner)
	}

	if runner.captionClient == nil {
		runner.captionClient = llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		})
	}
	if runner.imageClient == nil {
		runner.imageClient = imagegen.NewClient(imagegen.Config{
			APIKey:         cfg.ImageGen.APIKey,
			BaseURL:        cfg.ImageGen.BaseURL,
			Model:          cfg.ImageGen.Model,
			Size:           cfg.ImageGen.Size,
			TimeoutSeconds: cfg.ImageGen.TimeoutSeconds,
		})
	}
	if runner.videoClient == nil {
		client, err := ffmpeg.New(ffmpeg.Config{
			Binary:          cfg.Video.FFmpegBinary,
			SecondsPerImage: cfg.Video.SecondsPerImage,
			Encoder:         cfg.Video.Encoder,
			PixelFormat:     cfg.Video.PixelFormat,
			TimeoutSeconds:  cfg.Video.TimeoutSeconds,
		})
		if err != nil {
			return nil, fmt.Errorf("pipeline: build ffmpeg client: %w", err)
		}
		runner.videoClient = client
	}
	if runner.postClient == nil {
		runner.postClient = facebook.NewClient(facebook.Config{
			PageToken:      cfg.Facebook.PageToken,
			APIURL:         cfg.Facebook.APIURL,
			TimeoutSeconds: cfg.Facebook.TimeoutSeconds,
		})
	}
	if runner.notifier == nil {
		runner.notifier = notifications.NewService(cfg)
	}
	if runner.store == nil && cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("pipeline: open history store: %w", err)
		}
		runner.store = store
	}

	runner.prompt = NewPromptStage(runner.captionClient, logger)
	runner.image = NewImageStage(runner.imageClient, logger)
	runner.video = NewVideoStage(runner.videoClient, logger)
	runner.post = NewPostStage(runner.postClient, logger)
	return runner, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.Close()
}

// History exposes the run history store, or nil when history is disabled.
func (r *Runner) History() *history.Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Run executes all four stages for the topic. Empty output paths default to
// post.png and post.mp4 in the workspace directory. Existing artifacts at the
// output paths are overwritten.
func (r *Runner) Run(ctx context.Context, topic, imagePath, videoPath string) (RunResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return RunResult{}, services.Wrap(services.ErrValidation, "pipeline", "run", "topic must not be empty", nil)
	}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return RunResult{}, fmt.Errorf("pipeline run: %w", err)
	}
	if strings.TrimSpace(imagePath) == "" {
		imagePath = filepath.Join(r.cfg.Paths.WorkspaceDir, "post.png")
	}
	if strings.TrimSpace(videoPath) == "" {
		videoPath = filepath.Join(r.cfg.Paths.WorkspaceDir, "post.mp4")
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.WorkspaceDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return RunResult{}, fmt.Errorf("pipeline run: acquire workspace lock: %w", err)
	}
	if !locked {
		return RunResult{}, services.Wrap(services.ErrValidation, "pipeline", "run", "another run is already in progress in this workspace", nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release workspace lock", "error", unlockErr)
		}
	}()

	runID := uuid.NewString()
	startedAt := time.Now()
	r.logger.Info("pipeline run started", "run_id", runID, "topic", topic)
	r.notify(func(ctx context.Context) error { return r.notifier.NotifyRunStarted(ctx, topic) })

	caption, err := r.prompt.Generate(ctx, topic)
	if err != nil {
		return RunResult{}, r.failRun(err, "caption stage")
	}

	image, err := r.image.Generate(ctx, caption.Caption, imagePath)
	if err != nil {
		return RunResult{}, r.failRun(err, "image stage")
	}

	video, err := r.video.Create(ctx, []string{image.Path}, videoPath)
	if err != nil {
		return RunResult{}, r.failRun(err, "video stage")
	}

	post, err := r.post.Publish(ctx, caption.Caption, image.Path)
	if err != nil {
		return RunResult{}, r.failRun(err, "post stage")
	}
	if post.Status == "posted" {
		r.notify(func(ctx context.Context) error { return r.notifier.NotifyPostPublished(ctx, topic, post.PostID) })
	}

	result := RunResult{
		RunID:     runID,
		Topic:     topic,
		Caption:   caption,
		Image:     image,
		Video:     video,
		Post:      post,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}

	r.record(ctx, result)
	r.notify(func(ctx context.Context) error {
		return r.notifier.NotifyRunCompleted(ctx, topic, post.Status, result.Duration)
	})

	r.logger.Info("pipeline run finished",
		"run_id", runID,
		"caption", string(caption.Provenance),
		"image", string(image.Provenance),
		"video", string(video.Provenance),
		"post", post.Status,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// record persists the run outcome. History failures never fail the run.
func (r *Runner) record(ctx context.Context, result RunResult) {
	if r.store == nil {
		return
	}
	rec := history.Record{
		RunID:         result.RunID,
		Topic:         result.Topic,
		Caption:       result.Caption.Caption,
		CaptionSource: string(result.Caption.Provenance),
		CaptionReason: result.Caption.Reason,
		ImagePath:     result.Image.Path,
		ImageSource:   string(result.Image.Provenance),
		ImageReason:   result.Image.Reason,
		VideoPath:     result.Video.Path,
		VideoSource:   string(result.Video.Provenance),
		VideoReason:   result.Video.Reason,
		PostStatus:    result.Post.Status,
		PostSource:    string(result.Post.Provenance),
		PostID:        result.Post.PostID,
		PostReason:    result.Post.Reason,
		Duration:      result.Duration,
		CreatedAt:     result.StartedAt.UTC(),
	}
	if _, err := r.store.Record(ctx, rec); err != nil {
		r.logger.Warn("failed to record run history", "run_id", result.RunID, "error", err)
	}
}

func (r *Runner) failRun(err error, label string) error {
	r.notify(func(ctx context.Context) error { return r.notifier.NotifyError(ctx, err, label) })
	return err
}

func (r *Runner) notify(fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		r.logger.Warn("notification failed", "error", err)
	}
}
