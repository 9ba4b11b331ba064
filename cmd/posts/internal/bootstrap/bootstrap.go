// Package bootstrap shares module construction across the posts CLIs so each
// command parses flags and delegates the wiring here.
package bootstrap

import (
	"fmt"
	"strings"

	posts "github.com/typeline/go-posts"
	postscmd "github.com/typeline/go-posts/internal/commands/posts"
	"github.com/typeline/go-posts/internal/logging"
	"github.com/typeline/go-posts/pkg/interfaces"
)

// Options captures configuration shared by the posts CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	Sections       []string
	DefaultSection string
	StoreDSN       string
	StoreEnabled   bool
	LintSchemes    []string
	LogLevel       string
	LogFormat      string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the posts module with the service handles the CLIs use.
type Module struct {
	Module  *posts.Module
	Service interfaces.MarkdownService
	Linter  interfaces.Linter
	Logger  interfaces.Logger
	Gates   postscmd.FeatureGates
}

// BuildModule constructs a posts module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := posts.DefaultConfig()

	cfg.Content.Dir = strings.TrimSpace(opts.ContentDir)
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive
	if len(opts.Sections) > 0 {
		cfg.Content.Sections = cloneStrings(opts.Sections)
	}
	if trimmed := strings.TrimSpace(opts.DefaultSection); trimmed != "" {
		cfg.Content.DefaultSection = trimmed
	}

	cfg.Features.Store = opts.StoreEnabled
	if opts.StoreEnabled {
		if trimmed := strings.TrimSpace(opts.StoreDSN); trimmed != "" {
			cfg.Storage.DSN = trimmed
		}
	}

	if len(opts.LintSchemes) > 0 {
		cfg.Lint.ExternalSchemes = cloneStrings(opts.LintSchemes)
	}

	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}

	moduleOpts := []posts.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, posts.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := posts.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise posts module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		return nil, fmt.Errorf("markdown service not configured")
	}

	provider := module.Container().LoggerProvider()

	return &Module{
		Module:  module,
		Service: service,
		Linter:  module.Linter(),
		Logger:  logging.MarkdownLogger(provider),
		Gates: postscmd.FeatureGates{
			StoreEnabled: func() bool { return opts.StoreEnabled },
		},
	}, nil
}

// SplitList parses a comma separated flag value into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
