package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeImageGen()
	c.normalizeVideo()
	c.normalizeFacebook()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StaticDir) == "" {
		c.Paths.StaticDir = defaultStaticDir
	}
	if c.Paths.StaticDir, err = expandPath(c.Paths.StaticDir); err != nil {
		return fmt.Errorf("paths.static_dir: %w", err)
	}
	c.Paths.WebBind = strings.TrimSpace(c.Paths.WebBind)
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = defaultLLMModel
	}
}

func (c *Config) normalizeImageGen() {
	c.ImageGen.APIKey = strings.TrimSpace(c.ImageGen.APIKey)
	if c.ImageGen.APIKey == "" {
		c.ImageGen.APIKey = c.LLM.APIKey
	}
	if strings.TrimSpace(c.ImageGen.BaseURL) == "" {
		c.ImageGen.BaseURL = defaultImageBaseURL
	}
	if strings.TrimSpace(c.ImageGen.Model) == "" {
		c.ImageGen.Model = defaultImageModel
	}
	if strings.TrimSpace(c.ImageGen.Size) == "" {
		c.ImageGen.Size = defaultImageSize
	}
}

func (c *Config) normalizeVideo() {
	if strings.TrimSpace(c.Video.FFmpegBinary) == "" {
		c.Video.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Video.Encoder) == "" {
		c.Video.Encoder = defaultVideoEncoder
	}
	if strings.TrimSpace(c.Video.PixelFormat) == "" {
		c.Video.PixelFormat = defaultVideoPixelFormat
	}
}

func (c *Config) normalizeFacebook() {
	c.Facebook.PageToken = strings.TrimSpace(c.Facebook.PageToken)
	if c.Facebook.PageToken == "" {
		if value, ok := os.LookupEnv("FB_PAGE_TOKEN"); ok {
			c.Facebook.PageToken = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Facebook.APIURL) == "" {
		c.Facebook.APIURL = defaultFacebookAPIURL
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.LogDir, "history.db")
		return nil
	}
	expanded, err := expandPath(c.History.Path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
