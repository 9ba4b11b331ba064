// Package posts turns a directory of Markdown blog posts into structured
// content: parsed front matter, rendered HTML, editorial lint reports, and a
// SQLite content index that downstream site generators can query.
package posts

import (
	postscmd "github.com/typeline/go-posts/internal/commands/posts"
	"github.com/typeline/go-posts/internal/di"
	"github.com/typeline/go-posts/pkg/interfaces"
)

// Document exports the parsed post representation.
type Document = interfaces.Document

// FrontMatter exports the post metadata envelope.
type FrontMatter = interfaces.FrontMatter

// LoadOptions exports per-call load overrides.
type LoadOptions = interfaces.LoadOptions

// ParseOptions exports per-call rendering overrides.
type ParseOptions = interfaces.ParseOptions

// ImportOptions exports import behaviour toggles.
type ImportOptions = interfaces.ImportOptions

// SyncOptions exports sync behaviour toggles.
type SyncOptions = interfaces.SyncOptions

// ImportResult exports import outcome accounting.
type ImportResult = interfaces.ImportResult

// SyncResult exports sync outcome accounting.
type SyncResult = interfaces.SyncResult

// LintOptions exports per-run lint toggles.
type LintOptions = interfaces.LintOptions

// LintReport exports the aggregated lint outcome.
type LintReport = interfaces.LintReport

// LintIssue exports a single lint finding.
type LintIssue = interfaces.LintIssue

// PostRecord exports the indexed post row.
type PostRecord = interfaces.PostRecord

// MarkdownService exports the file-centric workflow contract.
type MarkdownService = interfaces.MarkdownService

// Linter exports the editorial check contract.
type Linter = interfaces.Linter

// PostStore exports the content index contract.
type PostStore = interfaces.PostStore

// Option re-exports container wiring overrides for host applications.
type Option = di.Option

// WithLoggerProvider overrides the logger provider built from configuration.
var WithLoggerProvider = di.WithLoggerProvider

// WithBunDB supplies an existing bun database handle.
var WithBunDB = di.WithBunDB

// WithPostStore overrides the content index built from configuration.
var WithPostStore = di.WithPostStore

// WithCache enables read-through caching on the content index.
var WithCache = di.WithCache

// WithParser overrides the Markdown parser built from configuration.
var WithParser = di.WithParser

// WithMarkdownService overrides the Markdown service built from configuration.
var WithMarkdownService = di.WithMarkdownService

// WithLinter overrides the linter built from configuration.
var WithLinter = di.WithLinter

// Module is the top level runtime façade over the configured services.
type Module struct {
	container *di.Container
}

// New constructs a Module from the provided configuration and optional
// dependency overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying dependency container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Markdown returns the configured Markdown service.
func (m *Module) Markdown() MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownService()
}

// Linter returns the configured linter, or nil when linting is disabled.
func (m *Module) Linter() Linter {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Linter()
}

// Store returns the configured content index, or nil when storage is disabled.
func (m *Module) Store() PostStore {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PostStore()
}

// Handlers returns the command handler set, or nil when commands are disabled.
func (m *Module) Handlers() *postscmd.HandlerSet {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Handlers()
}

// Close releases resources owned by the module, such as a database handle
// opened from configuration.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
