package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrBinaryNotFound indicates the ffmpeg executable is absent from PATH.
var ErrBinaryNotFound = errors.New("ffmpeg binary not found")

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stderrTail string, err error)
}

// Config captures the encode parameters for stitching stills into a clip.
type Config struct {
	Binary          string
	SecondsPerImage int
	Encoder         string
	PixelFormat     string
	TimeoutSeconds  int
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	cfg      Config
	timeout  time.Duration
	exec     Executor
	lookPath func(string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLookPath overrides binary resolution (primarily for tests).
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Client) {
		if fn != nil {
			c.lookPath = fn
		}
	}
}

// New constructs an ffmpeg client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.Binary = strings.TrimSpace(cfg.Binary)
	if cfg.Binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	if cfg.SecondsPerImage <= 0 {
		cfg.SecondsPerImage = 3
	}
	if strings.TrimSpace(cfg.Encoder) == "" {
		cfg.Encoder = "libx264"
	}
	if strings.TrimSpace(cfg.PixelFormat) == "" {
		cfg.PixelFormat = "yuv420p"
	}
	client := &Client{
		cfg:      cfg,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		exec:     commandExecutor{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Available reports whether the configured binary resolves on PATH.
func (c *Client) Available() bool {
	if c == nil {
		return false
	}
	_, err := c.lookPath(c.cfg.Binary)
	return err == nil
}

// Stitch loops each still for the configured duration and concatenates them
// into a single silent clip at the output path.
func (c *Client) Stitch(ctx context.Context, images []string, output string) error {
	if len(images) == 0 {
		return errors.New("ffmpeg stitch: at least one image required")
	}
	if strings.TrimSpace(output) == "" {
		return errors.New("ffmpeg stitch: output path required")
	}
	for _, image := range images {
		info, err := os.Stat(image)
		if err != nil {
			return fmt.Errorf("ffmpeg stitch: inspect image %q: %w", image, err)
		}
		if info.IsDir() {
			return fmt.Errorf("ffmpeg stitch: image path %q is a directory", image)
		}
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("ffmpeg stitch: create output directory: %w", err)
	}

	binary, err := c.lookPath(c.cfg.Binary)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBinaryNotFound, c.cfg.Binary)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.buildArgs(images, output)
	stderrTail, err := c.exec.Run(runCtx, binary, args)
	if err != nil {
		if stderrTail != "" {
			return fmt.Errorf("ffmpeg stitch: %w (stderr: %s)", err, stderrTail)
		}
		return fmt.Errorf("ffmpeg stitch: %w", err)
	}
	return nil
}

func (c *Client) buildArgs(images []string, output string) []string {
	args := []string{"-y"}
	duration := strconv.Itoa(c.cfg.SecondsPerImage)
	for _, image := range images {
		args = append(args, "-loop", "1", "-t", duration, "-i", image)
	}

	var refs strings.Builder
	for idx := range images {
		fmt.Fprintf(&refs, "[%d:v]", idx)
	}
	filter := fmt.Sprintf("%sconcat=n=%d:v=1:a=0[v]", refs.String(), len(images))

	args = append(args,
		"-filter_complex", filter,
		"-map", "[v]",
		"-c:v", c.cfg.Encoder,
		"-pix_fmt", c.cfg.PixelFormat,
		output,
	)
	return args
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderrLines(stderr.String()), err
}

// stderrLines keeps the tail of ffmpeg's stderr, which carries the actual
// failure reason after pages of banner and progress output.
func stderrLines(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, " | ")
}
