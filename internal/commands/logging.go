package commands

import (
	"strings"

	"github.com/typeline/go-posts/internal/logging"
	"github.com/typeline/go-posts/pkg/interfaces"
)

const commandModuleRoot = "posts.commands"

// CommandLogger returns a module-scoped logger for command handlers,
// enriching it with consistent structured fields so command executions can be
// filtered in aggregate.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
