package postscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/typeline/go-posts/internal/commands"
	"github.com/typeline/go-posts/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the post command handlers produced by RegisterPostCommands.
type HandlerSet struct {
	Import *ImportDirectoryHandler
	Sync   *SyncDirectoryHandler
	Lint   *LintDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	importHandlerOpts []commands.HandlerOption[ImportDirectoryCommand]
	syncHandlerOpts   []commands.HandlerOption[SyncDirectoryCommand]
	lintHandlerOpts   []commands.HandlerOption[LintDirectoryCommand]
	lintSink          ReportSink
}

// WithImportHandlerOptions forwards options to the ImportDirectoryHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncDirectoryHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithLintHandlerOptions forwards options to the LintDirectoryHandler constructor.
func WithLintHandlerOptions(opts ...commands.HandlerOption[LintDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.lintHandlerOpts = append(cfg.lintHandlerOpts, opts...)
	}
}

// WithLintReportSink registers a sink that observes lint reports before the handler resolves.
func WithLintReportSink(sink ReportSink) Option {
	return func(cfg *options) {
		cfg.lintSink = sink
	}
}

// RegisterPostCommands builds post command handlers and registers them with the provided
// registry. A HandlerSet containing the constructed handlers is returned so callers can wire
// additional integrations (dispatcher, cron) as needed. The lint handler is only built when
// a linter is supplied.
func RegisterPostCommands(reg CommandRegistry, service interfaces.MarkdownService, linter interfaces.Linter, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("post command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "posts")

	set := &HandlerSet{
		Import: NewImportDirectoryHandler(service, logger, gates, cfg.importHandlerOpts...),
		Sync:   NewSyncDirectoryHandler(service, logger, gates, cfg.syncHandlerOpts...),
	}
	if linter != nil {
		set.Lint = NewLintDirectoryHandler(service, linter, logger, gates, cfg.lintSink, cfg.lintHandlerOpts...)
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Import); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Sync); err != nil {
			return nil, err
		}
		if set.Lint != nil {
			if err := reg.RegisterCommand(set.Lint); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

// RegisterSyncCron wires the provided sync handler into a cron registrar using the supplied
// command configuration and message payload. The handler is executed with a background context.
func RegisterSyncCron(reg CronRegistrar, handler *SyncDirectoryHandler, cfg command.HandlerConfig, msg SyncDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
