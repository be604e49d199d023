package menulinkscmd

import (
	"context"
	"testing"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-structure-sync/internal/commands"
	"github.com/goliatone/go-structure-sync/internal/menusync"
)

func TestSubscribeRoutesDispatchedMessages(t *testing.T) {
	service := &stubService{}
	cache := &countingCache{}

	set, err := RegisterCommands(nil, service, nil, WithCacheInvalidator(cache))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	subs, err := Subscribe(set, 0)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	t.Cleanup(func() { commands.Unsubscribe(subs) })
	if len(subs) != 4 {
		t.Fatalf("expected 4 subscriptions, got %d", len(subs))
	}

	ctx := context.Background()
	if err := dispatcher.Dispatch(ctx, ExportCommand{Menus: []string{"main"}}); err != nil {
		t.Fatalf("dispatch export: %v", err)
	}
	if err := dispatcher.Dispatch(ctx, ImportCommand{Style: "full"}); err != nil {
		t.Fatalf("dispatch import: %v", err)
	}
	if err := dispatcher.Dispatch(ctx, InvalidateCacheCommand{}); err != nil {
		t.Fatalf("dispatch invalidate: %v", err)
	}

	if service.exportCalls != 1 {
		t.Fatalf("expected one export, got %d", service.exportCalls)
	}
	if len(service.imports) != 1 || service.imports[0].Style != menusync.StyleFull {
		t.Fatalf("unexpected imports %+v", service.imports)
	}
	if cache.calls != 1 {
		t.Fatalf("expected one cache flush, got %d", cache.calls)
	}
}

func TestDispatcherRejectsUnknownHandler(t *testing.T) {
	if _, err := (commands.Dispatcher{}).RegisterCommand(struct{}{}); err == nil {
		t.Fatal("expected unsupported handler error")
	}
}
