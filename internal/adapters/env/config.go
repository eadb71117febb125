package env

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/3-lines-studio/genfig/internal/core"
	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port int
	// ServerCommand replaces the default static server, e.g.
	// "genfig serve -host {host} -port {port} -root {root}".
	ServerCommand []string

	ChromePath string
	// ShowBrowser opens a visible browser window instead of running headless.
	ShowBrowser        bool
	DeviceScale        float64
	CaptureDelay       time.Duration
	NavigationAttempts int
	NavigationBackoff  time.Duration
	RenderTimeout      time.Duration
	RenderTarget       string
	// CropInset defaults to core.DefaultCropInset when nil.
	CropInset *core.CropInset

	LogLevel slog.Level

	PublishDir string
	S3         S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

func Default() Config {
	inset := core.DefaultCropInset
	return Config{
		Host:               "127.0.0.1",
		Port:               5028,
		NavigationAttempts: 10,
		NavigationBackoff:  200 * time.Millisecond,
		RenderTimeout:      10 * time.Second,
		RenderTarget:       "defaultCanvas0",
		CropInset:          &inset,
		LogLevel:           slog.LevelInfo,
		S3: S3Config{
			Region: "us-east-1",
			Bucket: "genfig-figures",
			UseSSL: true,
		},
	}
}

// WithDefaults fills every unset field of c from Default. A zero Port or
// NavigationAttempts counts as unset.
func (c Config) WithDefaults() Config {
	def := Default()
	if c.Host == "" {
		c.Host = def.Host
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.NavigationAttempts <= 0 {
		c.NavigationAttempts = def.NavigationAttempts
	}
	if c.NavigationBackoff <= 0 {
		c.NavigationBackoff = def.NavigationBackoff
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = def.RenderTimeout
	}
	if c.RenderTarget == "" {
		c.RenderTarget = def.RenderTarget
	}
	if c.CropInset == nil {
		c.CropInset = def.CropInset
	}
	return c
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error

	cfg.Host = String("GENFIG_HOST", cfg.Host)
	cfg.Port, err = Int("GENFIG_PORT", cfg.Port)
	collect(err)
	cfg.ServerCommand = Fields("GENFIG_SERVER_COMMAND")

	cfg.ChromePath = String("GENFIG_CHROME_PATH", "")
	headless, err := Bool("GENFIG_HEADLESS", true)
	collect(err)
	cfg.ShowBrowser = !headless
	cfg.DeviceScale, err = Float("GENFIG_DEVICE_SCALE", cfg.DeviceScale)
	collect(err)
	cfg.CaptureDelay, err = Duration("GENFIG_CAPTURE_DELAY", cfg.CaptureDelay)
	collect(err)
	cfg.NavigationAttempts, err = Int("GENFIG_NAV_ATTEMPTS", cfg.NavigationAttempts)
	collect(err)
	cfg.NavigationBackoff, err = Duration("GENFIG_NAV_BACKOFF", cfg.NavigationBackoff)
	collect(err)
	cfg.RenderTimeout, err = Duration("GENFIG_RENDER_TIMEOUT", cfg.RenderTimeout)
	collect(err)
	cfg.RenderTarget = String("GENFIG_RENDER_TARGET", cfg.RenderTarget)
	inset := *cfg.CropInset
	inset.Top, err = Int("GENFIG_CROP_INSET_TOP", inset.Top)
	collect(err)
	inset.Bottom, err = Int("GENFIG_CROP_INSET_BOTTOM", inset.Bottom)
	collect(err)
	cfg.CropInset = &inset

	cfg.LogLevel, err = parseLevel(String("GENFIG_LOG_LEVEL", "info"))
	collect(err)

	cfg.PublishDir = String("GENFIG_PUBLISH_DIR", "")
	cfg.S3.Endpoint = String("GENFIG_S3_ENDPOINT", "")
	cfg.S3.Region = String("GENFIG_S3_REGION", cfg.S3.Region)
	cfg.S3.AccessKey = String("GENFIG_S3_ACCESS_KEY", "")
	cfg.S3.SecretKey = String("GENFIG_S3_SECRET_KEY", "")
	cfg.S3.Bucket = String("GENFIG_S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.UseSSL, err = Bool("GENFIG_S3_USE_SSL", cfg.S3.UseSSL)
	collect(err)
	cfg.S3.Prefix = String("GENFIG_S3_PREFIX", "")

	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("GENFIG_PORT %d out of range", cfg.Port))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse GENFIG_LOG_LEVEL: %w", err)
	}
	return level, nil
}
