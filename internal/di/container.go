// Package di wires the module's services from configuration and optional
// overrides. The container owns construction order: logging first, then the
// store, then the Markdown service and linter that depend on both.
package di

import (
	"context"
	"fmt"
	"os"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/typeline/go-posts/internal/commands"
	postscmd "github.com/typeline/go-posts/internal/commands/posts"
	"github.com/typeline/go-posts/internal/lint"
	"github.com/typeline/go-posts/internal/logging"
	"github.com/typeline/go-posts/internal/logging/gologger"
	"github.com/typeline/go-posts/internal/markdown"
	"github.com/typeline/go-posts/internal/runtimeconfig"
	"github.com/typeline/go-posts/internal/store"
	"github.com/typeline/go-posts/pkg/interfaces"
)

// Container assembles the module's services from configuration plus optional overrides.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	bunDB          *bun.DB
	ownsDB         bool

	postStore       interfaces.PostStore
	cacheService    repocache.CacheService
	cacheSerializer repocache.KeySerializer

	parser      interfaces.MarkdownParser
	markdownSvc interfaces.MarkdownService
	linter      interfaces.Linter

	handlers *postscmd.HandlerSet
}

// Option customises container construction.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an existing bun database handle. The container will not
// open or close the connection itself.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithPostStore overrides the store built from configuration.
func WithPostStore(ps interfaces.PostStore) Option {
	return func(c *Container) {
		c.postStore = ps
	}
}

// WithCache enables read-through caching on the post store.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.cacheSerializer = serializer
	}
}

// WithMarkdownService overrides the Markdown service built from configuration.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithLinter overrides the linter built from configuration.
func WithLinter(l interfaces.Linter) Option {
	return func(c *Container) {
		c.linter = l
	}
}

// WithParser overrides the Markdown parser built from configuration.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// NewContainer validates cfg and assembles the module services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStore(); err != nil {
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	if err := c.configureLinter(); err != nil {
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	// A nil provider resolves to no-op loggers in logging.ModuleLogger.
	if !c.Config.Features.Logger || strings.EqualFold(c.Config.Logging.Provider, "noop") {
		return nil
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStore() error {
	if c.postStore != nil || !c.Config.Features.Store {
		return nil
	}

	if c.bunDB == nil {
		db, err := store.OpenSQLite(c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		if err := store.EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	storeLogger := logging.StoreLogger(c.loggerProvider)
	if c.Config.Cache.Enabled && c.cacheService != nil {
		c.postStore = store.NewBunPostStoreWithCache(c.bunDB, storeLogger, c.cacheService, c.cacheSerializer)
	} else {
		c.postStore = store.NewBunPostStore(c.bunDB, storeLogger)
	}
	return nil
}

func (c *Container) configureMarkdown() error {
	if c.markdownSvc != nil {
		return nil
	}

	parseDefaults := interfaces.ParseOptions{
		Extensions: c.Config.Content.Parser.Extensions,
		Sanitize:   c.Config.Content.Parser.Sanitize,
		HardWraps:  c.Config.Content.Parser.HardWraps,
		SafeMode:   c.Config.Content.Parser.SafeMode,
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(parseDefaults)
	}

	var importer *markdown.Importer
	if c.postStore != nil {
		importer = markdown.NewImporter(markdown.ImporterConfig{
			Store:  c.postStore,
			Logger: logging.MarkdownLogger(c.loggerProvider),
		})
	}

	svc, err := markdown.NewService(markdown.Config{
		BasePath:        c.Config.Content.Dir,
		DefaultSection:  c.Config.Content.DefaultSection,
		Sections:        c.Config.Content.Sections,
		SectionPatterns: c.Config.Content.SectionPatterns,
		Pattern:         c.Config.Content.Pattern,
		Recursive:       c.Config.Content.Recursive,
		Parser:          parseDefaults,
	}, c.parser, importer)
	if err != nil {
		return fmt.Errorf("configure markdown: %w", err)
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureLinter() error {
	if c.linter != nil || !c.Config.Features.Lint {
		return nil
	}
	linter, err := lint.NewLinter(os.DirFS(c.Config.Content.Dir), lint.Config{
		SkipLinks:       c.Config.Lint.SkipLinks,
		SkipSchema:      c.Config.Lint.SkipSchema,
		ExternalSchemes: c.Config.Lint.ExternalSchemes,
	}, logging.LintLogger(c.loggerProvider))
	if err != nil {
		return fmt.Errorf("configure linter: %w", err)
	}
	c.linter = linter
	return nil
}

func (c *Container) configureCommands() error {
	if !c.Config.Commands.Enabled {
		return nil
	}

	gates := postscmd.FeatureGates{
		StoreEnabled: func() bool { return c.Config.Features.Store },
		LintEnabled:  func() bool { return c.Config.Features.Lint },
	}

	regOpts := []postscmd.Option{}
	if c.Config.Commands.Timeout > 0 {
		regOpts = append(regOpts,
			postscmd.WithImportHandlerOptions(commands.WithTimeout[postscmd.ImportDirectoryCommand](c.Config.Commands.Timeout)),
			postscmd.WithSyncHandlerOptions(commands.WithTimeout[postscmd.SyncDirectoryCommand](c.Config.Commands.Timeout)),
			postscmd.WithLintHandlerOptions(commands.WithTimeout[postscmd.LintDirectoryCommand](c.Config.Commands.Timeout)),
		)
	}

	set, err := postscmd.RegisterPostCommands(nil, c.markdownSvc, c.linter, c.loggerProvider, gates, regOpts...)
	if err != nil {
		return fmt.Errorf("configure commands: %w", err)
	}
	c.handlers = set
	return nil
}

// LoggerProvider returns the provider used across the module.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the database handle when the store feature is active.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// PostStore returns the configured post store, or nil when the store feature is disabled.
func (c *Container) PostStore() interfaces.PostStore {
	return c.postStore
}

// MarkdownService returns the configured Markdown service.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// Linter returns the configured linter, or nil when the lint feature is disabled.
func (c *Container) Linter() interfaces.Linter {
	return c.linter
}

// Handlers returns the command handler set, or nil when commands are disabled.
func (c *Container) Handlers() *postscmd.HandlerSet {
	return c.handlers
}

// Close releases resources owned by the container. Database handles supplied
// via WithBunDB are left open for the caller to manage.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}
