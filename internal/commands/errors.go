package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/menusync"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"

	syncStyleInvalid    = "MENU_SYNC_STYLE_INVALID"
	syncSnapshotMissing = "MENU_SYNC_SNAPSHOT_MISSING"
	syncSnapshotInvalid = "MENU_SYNC_SNAPSHOT_INVALID"
	syncOrderingFailed  = "MENU_SYNC_ORDERING_FAILED"
	syncRunInProgress   = "MENU_SYNC_RUN_IN_PROGRESS"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// wrapExecuteError tags engine failures with a stable text code. Configuration
// problems are reported as validation errors since nothing was changed.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, menusync.ErrStyleRequired), errors.Is(err, menusync.ErrUnknownStyle):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "menu sync style is invalid").
			WithTextCode(syncStyleInvalid)
	case errors.Is(err, menusync.ErrSnapshotMissing):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "no menu link snapshot to import").
			WithTextCode(syncSnapshotMissing)
	case isConfigurationError(err):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "menu link snapshot is invalid").
			WithTextCode(syncSnapshotInvalid)
	case errors.Is(err, menusync.ErrOrdering):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "menu link parents could not be ordered").
			WithTextCode(syncOrderingFailed)
	case errors.Is(err, jobs.ErrRunInProgress):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "a menu sync run is already in progress").
			WithTextCode(syncRunInProgress)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}

func isConfigurationError(err error) bool {
	var cfgErr *menusync.ConfigurationError
	return errors.As(err, &cfgErr)
}
