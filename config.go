package posts

import "github.com/typeline/go-posts/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrStoreDriverUnknown      = runtimeconfig.ErrStoreDriverUnknown
	ErrStoreDSNRequired        = runtimeconfig.ErrStoreDSNRequired
	ErrCacheRequiresStore      = runtimeconfig.ErrCacheRequiresStore
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrLintSchemeInvalid       = runtimeconfig.ErrLintSchemeInvalid
)

type (
	Config         = runtimeconfig.Config
	ContentConfig  = runtimeconfig.ContentConfig
	ParserConfig   = runtimeconfig.ParserConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	LintConfig     = runtimeconfig.LintConfig
	Features       = runtimeconfig.Features
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
