package menusync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrStyleRequired       = errors.New("menusync: import style is required")
	ErrUnknownStyle        = errors.New("menusync: unknown import style")
	ErrSnapshotMissing     = errors.New("menusync: no snapshot to import")
	ErrOrdering            = errors.New("menusync: parent ordering cannot be satisfied")
	ErrTranslationConflict = errors.New("menusync: translation is the origin of its link")
	ErrStoreOperation      = errors.New("menusync: store operation failed")
	ErrNoTranslationTarget = errors.New("menusync: no entity to attach the translation to")
	ErrStoreRequired       = errors.New("menusync: store is required")
	ErrSnapshotStore       = errors.New("menusync: snapshot store is required")
	ErrRegistryRequired    = errors.New("menusync: language registry is required")
)

// ConfigurationError aborts a run before any live data is touched.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// OrderingError reports the identities still pending when a pass applied
// nothing. Records applied by earlier passes are kept.
type OrderingError struct {
	Stuck  []uuid.UUID
	Passes int
}

func (e *OrderingError) Error() string {
	ids := make([]string, 0, len(e.Stuck))
	for _, id := range e.Stuck {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("%s after %d passes: %s", ErrOrdering.Error(), e.Passes, strings.Join(ids, ", "))
}

func (e *OrderingError) Unwrap() error {
	return ErrOrdering
}

// TranslationConflictWarning is raised instead of removing a translation that
// shares its source language with the default translation.
type TranslationConflictWarning struct {
	Identity uuid.UUID
	Language string
	Title    string
}

func (w *TranslationConflictWarning) Error() string {
	return fmt.Sprintf("%s: %s (%s) %q", ErrTranslationConflict.Error(), w.Identity, w.Language, w.Title)
}

func (w *TranslationConflictWarning) Unwrap() error {
	return ErrTranslationConflict
}

// StoreOperationError marks one record as failed. The run continues.
type StoreOperationError struct {
	Op       string
	Identity uuid.UUID
	Language string
	Err      error
}

func (e *StoreOperationError) Error() string {
	if e.Language == "" {
		return fmt.Sprintf("menusync: %s %s: %v", e.Op, e.Identity, e.Err)
	}
	return fmt.Sprintf("menusync: %s %s (%s): %v", e.Op, e.Identity, e.Language, e.Err)
}

func (e *StoreOperationError) Unwrap() []error {
	return []error{ErrStoreOperation, e.Err}
}
