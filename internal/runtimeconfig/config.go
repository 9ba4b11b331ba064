package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("posts config: content directory is required")
var ErrStoreDriverUnknown = errors.New("posts config: storage driver is invalid")
var ErrStoreDSNRequired = errors.New("posts config: storage DSN is required when the store is enabled")
var ErrCacheRequiresStore = errors.New("posts config: repository caching requires the store to be enabled")
var ErrLoggingProviderRequired = errors.New("posts config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("posts config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("posts config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("posts config: logging format is invalid")
var ErrLintSchemeInvalid = errors.New("posts config: lint external scheme is invalid")

// Config aggregates feature flags and adapter bindings for the posts module.
// Fields intentionally use simple types so host applications can extend them
// later.
type Config struct {
	Enabled  bool
	Content  ContentConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Lint     LintConfig
	Features Features
	Commands CommandsConfig
	Logging  LoggingConfig
}

// ContentConfig captures filesystem and parser behaviour for post discovery.
type ContentConfig struct {
	Dir             string
	Pattern         string
	Recursive       bool
	Sections        []string
	SectionPatterns map[string]string
	DefaultSection  string
	Parser          ParserConfig
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// StorageConfig selects the content-index backend.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LintConfig tunes the editorial checks.
type LintConfig struct {
	SkipLinks       bool
	SkipSchema      bool
	ExternalSchemes []string
}

// Features toggles module functionality.
type Features struct {
	Store  bool
	Lint   bool
	Logger bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a content repository laid
// out as <dir>/<section>/<post>.md.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Content: ContentConfig{
			Dir:             "content",
			Pattern:         "*.md",
			Recursive:       true,
			SectionPatterns: map[string]string{},
		},
		Storage: StorageConfig{
			Driver: "sqlite3",
			DSN:    "file:posts.db?_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Lint: LintConfig{
			ExternalSchemes: []string{"http", "https", "mailto"},
		},
		Features: Features{
			Lint: true,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Cache.Enabled && !cfg.Features.Store {
		return ErrCacheRequiresStore
	}
	if cfg.Features.Store {
		driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
		if driver != "" && driver != "sqlite3" {
			return fmt.Errorf("%w: %s", ErrStoreDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStoreDSNRequired
		}
	}
	for _, scheme := range cfg.Lint.ExternalSchemes {
		if strings.TrimSpace(scheme) == "" {
			return ErrLintSchemeInvalid
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
