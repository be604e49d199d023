package commands

import (
	"strings"

	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

const commandModuleRoot = "sync.commands"

// CommandLogger returns a module-scoped logger for command handlers, carrying
// the component and command module on every entry.
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
