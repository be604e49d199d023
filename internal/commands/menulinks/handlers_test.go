package menulinkscmd

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-structure-sync/internal/commands"
	"github.com/goliatone/go-structure-sync/internal/commands/fixtures"
	"github.com/goliatone/go-structure-sync/internal/menusync"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
)

type stubService struct {
	exportCalls int
	imports     []menusync.ImportOptions
	importErr   error
	result      *menusync.ImportResult
	warnings    []snapshot.Issue
	validateErr error
}

func (s *stubService) Export(_ context.Context, opts menusync.ExportOptions) (*snapshot.Snapshot, error) {
	s.exportCalls++
	snap := snapshot.New(snapshotTime, opts.Menus)
	return snap, nil
}

func (s *stubService) Import(_ context.Context, opts menusync.ImportOptions) (*menusync.ImportResult, error) {
	s.imports = append(s.imports, opts)
	result := s.result
	if result == nil {
		result = &menusync.ImportResult{Style: opts.Style}
	}
	return result, s.importErr
}

func (s *stubService) Validate(context.Context) ([]snapshot.Issue, error) {
	return s.warnings, s.validateErr
}

type countingCache struct {
	calls int
}

func (c *countingCache) InvalidateCache(context.Context) error {
	c.calls++
	return nil
}

func TestImportCommandValidation(t *testing.T) {
	cases := []struct {
		name string
		msg  ImportCommand
		ok   bool
	}{
		{"full", ImportCommand{Style: "full"}, true},
		{"with menus", ImportCommand{Style: "safe", Menus: []string{"main", "footer-menu"}}, true},
		{"missing style", ImportCommand{}, false},
		{"unknown style", ImportCommand{Style: "mirror"}, false},
		{"bad menu", ImportCommand{Style: "force", Menus: []string{"Main Menu"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestImportHandlerRejectsInvalidMessage(t *testing.T) {
	service := &stubService{}
	handler := NewImportHandler(service, nil, Observers{})

	err := handler.Execute(context.Background(), ImportCommand{Style: "mirror"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.imports) != 0 {
		t.Fatal("service must not run for an invalid message")
	}
}

func TestImportHandlerRunsServiceAndObserves(t *testing.T) {
	service := &stubService{result: &menusync.ImportResult{Style: menusync.StyleSafe, Created: 2}}
	var observed *menusync.ImportResult
	handler := NewImportHandler(service, nil, Observers{
		Imported: func(result *menusync.ImportResult) { observed = result },
	})

	if err := handler.Execute(context.Background(), ImportCommand{Style: "Safe", Menus: []string{"main"}}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.imports) != 1 {
		t.Fatalf("expected one import, got %d", len(service.imports))
	}
	if opts := service.imports[0]; opts.Style != menusync.StyleSafe || len(opts.Menus) != 1 {
		t.Fatalf("unexpected import options %+v", opts)
	}
	if observed == nil || observed.Created != 2 {
		t.Fatalf("expected result to be observed, got %+v", observed)
	}
}

func TestImportHandlerTagsOrderingFailures(t *testing.T) {
	service := &stubService{importErr: &menusync.OrderingError{}}
	observed := false
	handler := NewImportHandler(service, nil, Observers{
		Imported: func(*menusync.ImportResult) { observed = true },
	})

	err := handler.Execute(context.Background(), ImportCommand{Style: "full"})
	if !errors.Is(err, menusync.ErrOrdering) {
		t.Fatalf("expected ordering error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !observed {
		t.Fatal("partial result should still be observed")
	}
}

func TestExportHandler(t *testing.T) {
	service := &stubService{}
	var exported *snapshot.Snapshot
	handler := NewExportHandler(service, nil, Observers{
		Exported: func(snap *snapshot.Snapshot) { exported = snap },
	})

	if err := handler.Execute(context.Background(), ExportCommand{Menus: []string{"main"}}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if service.exportCalls != 1 || exported == nil || exported.Menus[0] != "main" {
		t.Fatalf("expected export to run and be observed")
	}

	err := handler.Execute(context.Background(), ExportCommand{Menus: []string{"Not Valid"}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestValidateHandler(t *testing.T) {
	service := &stubService{warnings: []snapshot.Issue{{Location: "/groups/0/records/0", Message: "parent missing"}}}
	var seen []snapshot.Issue
	handler := NewValidateHandler(service, nil, Observers{
		Validated: func(issues []snapshot.Issue) { seen = issues },
	})
	if err := handler.Execute(context.Background(), ValidateCommand{}); err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("expected warnings to be observed, got %v", seen)
	}

	service.validateErr = &snapshot.ValidationError{Issues: []snapshot.Issue{{Message: "duplicate language"}}}
	err := handler.Execute(context.Background(), ValidateCommand{})
	if !errors.Is(err, snapshot.ErrInvalid) {
		t.Fatalf("expected invalid snapshot error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestInvalidateCacheHandler(t *testing.T) {
	cache := &countingCache{}
	if err := NewInvalidateCacheHandler(cache, nil).Execute(context.Background(), InvalidateCacheCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cache.calls != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.calls)
	}

	err := NewInvalidateCacheHandler(nil, nil).Execute(context.Background(), InvalidateCacheCommand{})
	if !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
}

func TestRegisterCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	applied := false

	set, err := RegisterCommands(reg, &stubService{}, nil,
		WithCacheInvalidator(&countingCache{}),
		WithImportHandlerOptions(func(*commands.Handler[ImportCommand]) { applied = true }),
	)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.Handlers) != 4 {
		t.Fatalf("expected four handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Export || reg.Handlers[1] != set.Import {
		t.Fatalf("unexpected registration order %#v", reg.Handlers)
	}
	if !applied {
		t.Fatal("expected import handler options applied")
	}

	if _, err := RegisterCommands(reg, nil, nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

var snapshotTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
