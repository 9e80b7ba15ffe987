package config

const (
	defaultWorkspaceDir          = "~/.local/share/postloom/workspace"
	defaultLogDir                = "~/.local/share/postloom/logs"
	defaultStaticDir             = "~/.local/share/postloom/static"
	defaultWebBind               = "127.0.0.1:8321"
	defaultLLMBaseURL            = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel              = "gpt-4o-mini"
	defaultLLMTimeoutSeconds     = 30
	defaultImageBaseURL          = "https://api.openai.com/v1/images/generations"
	defaultImageModel            = "gpt-image-1"
	defaultImageSize             = "1024x1024"
	defaultImageTimeoutSeconds   = 120
	defaultFFmpegBinary          = "ffmpeg"
	defaultSecondsPerImage       = 3
	defaultVideoEncoder          = "libx264"
	defaultVideoPixelFormat      = "yuv420p"
	defaultVideoTimeoutSeconds   = 300
	defaultFacebookAPIURL        = "https://graph.facebook.com/me/photos"
	defaultFacebookTimeout       = 30
	defaultNotifyRequestTimeout  = 10
	defaultHistoryEnabled        = true
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
			StaticDir:    defaultStaticDir,
			WebBind:      defaultWebBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		ImageGen: ImageGen{
			BaseURL:        defaultImageBaseURL,
			Model:          defaultImageModel,
			Size:           defaultImageSize,
			TimeoutSeconds: defaultImageTimeoutSeconds,
		},
		Video: Video{
			FFmpegBinary:    defaultFFmpegBinary,
			SecondsPerImage: defaultSecondsPerImage,
			Encoder:         defaultVideoEncoder,
			PixelFormat:     defaultVideoPixelFormat,
			TimeoutSeconds:  defaultVideoTimeoutSeconds,
		},
		Facebook: Facebook{
			APIURL:         defaultFacebookAPIURL,
			TimeoutSeconds: defaultFacebookTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
