package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/shellkit/internal/errors"
)

const (
	// ConfigName is the config file name looked up without --config.
	ConfigName = "shellkit"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "SHELLKIT"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultManifest is the default route manifest path.
	DefaultManifest = "routes.yaml"
)

// Config is the complete shellkit configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Routes  RoutesConfig  `mapstructure:"routes"`
	Content ContentConfig `mapstructure:"content"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Log     LogConfig     `mapstructure:"log"`

	configPath string
}

// ServerConfig configures the host bridge.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// Lang is the document language.
	Lang string `mapstructure:"lang"`
}

// RoutesConfig locates the route tree.
type RoutesConfig struct {
	Manifest        string `mapstructure:"manifest"`
	RedirectIndexTo string `mapstructure:"redirectIndexTo"`
}

// ContentConfig selects the lazy content store. Dir and S3.Bucket are
// mutually exclusive.
type ContentConfig struct {
	Dir     string   `mapstructure:"dir"`
	S3      S3Config `mapstructure:"s3"`
	MaxSize int64    `mapstructure:"maxSize"`
}

// S3Config configures the S3 content store.
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// SentryConfig configures error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sampleRate"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"addr":              "server.addr",
	"manifest":          "routes.manifest",
	"redirect-index-to": "routes.redirectIndexTo",
	"content-dir":       "content.dir",
	"s3-bucket":         "content.s3.bucket",
	"s3-prefix":         "content.s3.prefix",
	"s3-region":         "content.s3.region",
	"s3-endpoint":       "content.s3.endpoint",
	"metrics":           "metrics.enabled",
	"sentry-dsn":        "sentry.dsn",
	"log-level":         "log.level",
	"log-format":        "log.format",
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: DefaultAddr,
			Lang: "en",
		},
		Routes: RoutesConfig{
			Manifest: DefaultManifest,
		},
		Content: ContentConfig{
			MaxSize: 4 << 20,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "shellkit",
			Path:      "/metrics",
		},
		Sentry: SentryConfig{
			Environment: "production",
			SampleRate:  1.0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.lang", d.Server.Lang)
	v.SetDefault("routes.manifest", d.Routes.Manifest)
	v.SetDefault("routes.redirectIndexTo", d.Routes.RedirectIndexTo)
	v.SetDefault("content.dir", d.Content.Dir)
	v.SetDefault("content.maxSize", d.Content.MaxSize)
	v.SetDefault("content.s3.bucket", d.Content.S3.Bucket)
	v.SetDefault("content.s3.prefix", d.Content.S3.Prefix)
	v.SetDefault("content.s3.region", d.Content.S3.Region)
	v.SetDefault("content.s3.endpoint", d.Content.S3.Endpoint)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("sentry.dsn", d.Sentry.DSN)
	v.SetDefault("sentry.environment", d.Sentry.Environment)
	v.SetDefault("sentry.sampleRate", d.Sentry.SampleRate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads the configuration. path is an explicit config file, or ""
// to look for shellkit.yaml in the working directory; a missing default
// file is not an error. flags may be nil; only flags that were set
// override lower layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.New("C001").Wrap(err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("C002").
				WithDetail(err.Error()).
				WithSuggestion("Check that the file exists and is valid YAML").
				Wrap(err)
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail(fmt.Sprintf("decode config: %v", err)).
			Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file that was read, or "".
func (c *Config) Path() string {
	return c.configPath
}

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	invalid := func(detail, suggestion string) error {
		return errors.New("C001").WithDetail(detail).WithSuggestion(suggestion)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr is empty", "Set an address such as \":8080\"")
	}
	if c.Content.Dir != "" && c.Content.S3.Bucket != "" {
		return invalid("content.dir and content.s3.bucket are both set", "Choose one content store")
	}
	if c.Content.MaxSize <= 0 {
		return invalid("content.maxSize must be positive", "Remove the setting to use the default")
	}
	if c.Content.S3.Bucket != "" && c.Content.S3.Region == "" {
		return invalid("content.s3.region is empty", "Set the bucket region")
	}
	if c.Metrics.Enabled {
		if !namespacePattern.MatchString(c.Metrics.Namespace) {
			return invalid(fmt.Sprintf("metrics.namespace %q is not a valid metric name", c.Metrics.Namespace),
				"Use letters, digits and underscores")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return invalid("metrics.path must start with /", "Use \"/metrics\"")
		}
	}
	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		return invalid("sentry.sampleRate must be between 0 and 1", "Use 1.0 to report every error")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid(err.Error(), "Use debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid(fmt.Sprintf("log.format %q is unknown", c.Log.Format), "Use text or json")
	}
	return nil
}

// HasContentStore reports whether lazy content can be served.
func (c *Config) HasContentStore() bool {
	return c.Content.Dir != "" || c.Content.S3.Bucket != ""
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q is unknown", s)
	}
	return level, nil
}

// NewLogger builds the process logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
