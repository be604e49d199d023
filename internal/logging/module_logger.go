package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

const (
	rootModule     = "sync"
	menusModule    = "sync.menus"
	snapshotModule = "sync.snapshot"
	jobsModule     = "sync.jobs"
)

const (
	fieldStyle    = "style"
	fieldMenu     = "menu_name"
	fieldLanguage = "langcode"
	fieldIdentity = "uuid"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields a no-op logger so callers never need nil checks.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MenusLogger returns the logger used by the menu link sync engine.
func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, menusModule)
}

// SnapshotLogger returns the logger used by snapshot store adapters.
func SnapshotLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, snapshotModule)
}

// JobsLogger returns the logger used by the batch runner.
func JobsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, jobsModule)
}

// WithLinkContext attaches the identifying fields of a menu link record.
// Empty values are skipped.
func WithLinkContext(logger interfaces.Logger, identity, menu, language string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(identity); trimmed != "" {
		fields[fieldIdentity] = trimmed
	}
	if trimmed := strings.TrimSpace(menu); trimmed != "" {
		fields[fieldMenu] = trimmed
	}
	if trimmed := strings.TrimSpace(language); trimmed != "" {
		fields[fieldLanguage] = trimmed
	}
	return WithFields(logger, fields)
}

// WithStyle tags a logger with the import style of the current run.
func WithStyle(logger interfaces.Logger, style string) interfaces.Logger {
	if strings.TrimSpace(style) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldStyle: style})
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
