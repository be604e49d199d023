package menusync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/locales"
	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

const (
	exportBatchTitle = "Exporting menu links"
	importBatchTitle = "Importing menu links"

	importSucceededMessage = "Successfully imported menu links"
	importFailedMessage    = "Menu links import failed"
)

// Service exports the live menu links to a snapshot store and imports them
// back under one of the import styles.
type Service struct {
	store     Store
	snapshots snapshot.Store
	registry  locales.Registry
	runner    *jobs.Runner
	logger    interfaces.Logger
	notifier  interfaces.Notifier
	cache     CacheInvalidator
	listeners []FinishListener
	now       func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotifier sets where user facing messages go. Defaults to the logger.
func WithNotifier(notifier interfaces.Notifier) ServiceOption {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithRunner shares a job runner, and so its run lock, with other services.
func WithRunner(runner *jobs.Runner) ServiceOption {
	return func(s *Service) {
		if runner != nil {
			s.runner = runner
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCacheInvalidator flushes read caches when an import finishes.
func WithCacheInvalidator(cache CacheInvalidator) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithFinishListener registers a listener invoked once per import.
func WithFinishListener(fn FinishListener) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}

func NewService(store Store, snapshots snapshot.Store, registry locales.Registry, opts ...ServiceOption) (*Service, error) {
	switch {
	case store == nil:
		return nil, ErrStoreRequired
	case snapshots == nil:
		return nil, ErrSnapshotStore
	case registry == nil:
		return nil, ErrRegistryRequired
	}

	s := &Service{
		store:     store,
		snapshots: snapshots,
		registry:  registry,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = logging.NewLogNotifier(s.logger)
	}
	if s.runner == nil {
		s.runner = jobs.NewRunner(jobs.WithLogger(s.logger), jobs.WithClock(s.now))
	}
	if s.cache == nil {
		if invalidator, ok := store.(CacheInvalidator); ok {
			s.cache = invalidator
		}
	}
	return s, nil
}

// Export replaces the stored snapshot with the current live links and returns
// it. The live store is only read.
func (s *Service) Export(ctx context.Context, opts ExportOptions) (*snapshot.Snapshot, error) {
	if err := (menulinks.Filter{Menus: opts.Menus}).Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	var snap *snapshot.Snapshot
	exporter := NewExporter(s.store, s.registry, s.logger, s.now)
	err := s.runner.Run(ctx, jobs.Batch{
		Title: exportBatchTitle,
		Steps: []jobs.Step{{
			Name: "export",
			Run: func(ctx context.Context, _ jobs.ProgressFunc) error {
				exported, err := exporter.Export(ctx, opts.Menus)
				if err != nil {
					return err
				}
				if err := s.snapshots.Clear(ctx); err != nil {
					return fmt.Errorf("clear snapshot: %w", err)
				}
				if err := s.snapshots.Write(ctx, exported); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				snap = exported
				return nil
			},
		}},
	})
	if err != nil {
		s.logger.Error("menus.sync.export.failed", "error", err)
		return nil, err
	}
	s.logger.Info("menus.sync.export.completed", "links", len(snap.Groups), "records", snap.Len())
	return snap, nil
}

// Validate checks the stored snapshot. Warnings do not make it invalid.
func (s *Service) Validate(ctx context.Context) ([]snapshot.Issue, error) {
	snap, err := s.snapshots.Read(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, &ConfigurationError{Err: ErrSnapshotMissing}
	}
	return snapshot.Validate(snap, knownFields())
}

// Import applies the stored snapshot to the live store. Configuration
// problems are reported before anything is written. Per record failures and
// warnings are collected in the result; only an ordering failure, a step
// error or cancellation is returned as err, alongside the partial result.
func (s *Service) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	style, err := ParseStyle(string(opts.Style))
	if err != nil {
		s.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
		return nil, err
	}
	if err := (menulinks.Filter{Menus: opts.Menus}).Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	snap, err := s.snapshots.Read(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		err := &ConfigurationError{Err: ErrSnapshotMissing}
		s.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
		return nil, err
	}

	warnings, err := snapshot.Validate(snap, knownFields())
	if err != nil {
		return nil, &ConfigurationError{Err: err, Reason: "snapshot is invalid"}
	}
	for _, issue := range warnings {
		s.logger.Warn("menus.sync.snapshot.warning", "location", issue.Location, "issue", issue.Message)
	}

	snap = snap.FilterMenus(opts.Menus)
	logger := logging.WithStyle(s.logger, string(style))
	logger.Info(fmt.Sprintf("Using %q style for menu links import", style), "event", "menus.sync.import.style")

	reporter := NewReporter(style)
	reporter.OnFinish(s.invalidateOnFinish)
	reporter.OnFinish(s.notifyOnFinish)
	for _, listener := range s.listeners {
		reporter.OnFinish(listener)
	}

	ictx := newImportContext(style, opts.Menus, snap, s.store, reporter, logger)
	runErr := s.runner.Run(ctx, jobs.Batch{
		Title: importBatchTitle,
		Steps: stepsFor(ictx),
		Finished: func(ctx context.Context, summary jobs.Summary) {
			reporter.Finish(ctx, summary.Err)
		},
	})
	if errors.Is(runErr, jobs.ErrRunInProgress) {
		return nil, runErr
	}

	result := reporter.Result()
	if runErr != nil {
		var ordering *OrderingError
		if errors.As(runErr, &ordering) {
			runErr = ordering
		}
		return result, runErr
	}
	return result, nil
}

func (s *Service) invalidateOnFinish(ctx context.Context, _ *ImportResult, _ error) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx); err != nil {
		s.logger.Warn("menus.sync.cache.flush_failed", "error", err)
		return
	}
	s.logger.Info("menus.sync.cache.flushed")
}

func (s *Service) notifyOnFinish(ctx context.Context, result *ImportResult, err error) {
	if err != nil {
		s.notifier.Notify(ctx, interfaces.NotifyError, fmt.Sprintf("%s: %v", importFailedMessage, err))
		return
	}
	if result.Failed > 0 {
		s.notifier.Notify(ctx, interfaces.NotifyWarning,
			fmt.Sprintf("Imported menu links with %d failed records", result.Failed))
		return
	}
	s.logger.Info("menus.sync.import.completed",
		"created", result.Created,
		"updated", result.Updated,
		"translated", result.Translated,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"passes", result.Passes,
	)
	s.notifier.Notify(ctx, interfaces.NotifyStatus, importSucceededMessage)
}

func knownFields() snapshot.ValidateOption {
	specs := menulinks.FieldSpecs()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return snapshot.WithKnownFields(names...)
}
