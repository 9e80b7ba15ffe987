package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are deliberately
// not required: their absence selects fallback paths at run time.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateImageGen(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if bind := strings.TrimSpace(c.Paths.WebBind); bind != "" {
		if _, _, err := net.SplitHostPort(bind); err != nil {
			return fmt.Errorf("paths.web_bind %q is not a valid host:port: %w", bind, err)
		}
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"llm.timeout_seconds":           c.LLM.TimeoutSeconds,
		"imagegen.timeout_seconds":      c.ImageGen.TimeoutSeconds,
		"video.timeout_seconds":         c.Video.TimeoutSeconds,
		"facebook.timeout_seconds":      c.Facebook.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateVideo() error {
	if strings.TrimSpace(c.Video.FFmpegBinary) == "" {
		return errors.New("video.ffmpeg_binary must be set")
	}
	if c.Video.SecondsPerImage <= 0 {
		return errors.New("video.seconds_per_image must be positive")
	}
	return nil
}

func (c *Config) validateImageGen() error {
	size := strings.TrimSpace(c.ImageGen.Size)
	parts := strings.Split(size, "x")
	if len(parts) != 2 {
		return fmt.Errorf("imagegen.size %q must look like 1024x1024", size)
	}
	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return fmt.Errorf("imagegen.size %q must look like 1024x1024", size)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
