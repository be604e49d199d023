package menusync

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/locales"
	"github.com/goliatone/go-structure-sync/internal/menulinks"
)

func TestExporterGroupsActiveLanguagesDefaultFirst(t *testing.T) {
	f := newFixture(t, nil)
	home := f.seed(t, homeID, "main", "es", "Inicio", nil)
	home = f.translate(t, home, "en", "es", "Home")
	f.translate(t, home, "de", "es", "Startseite")
	f.seed(t, aboutID, "main", "de", "Uber uns", nil)
	f.seed(t, teamID, "footer", "en", "Team", nil)

	exporter := NewExporter(f.store, locales.NewStaticRegistry("en", "es"), nil, clock)
	snap, err := exporter.Export(context.Background(), []string{"main"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if len(snap.Groups) != 1 {
		t.Fatalf("expected only Home to be exported, got %d groups", len(snap.Groups))
	}
	group := snap.Groups[0]
	if group.Identity != homeID {
		t.Fatalf("unexpected group %s", group.Identity)
	}
	langs := group.Languages()
	if len(langs) != 2 || langs[0] != "es" || langs[1] != "en" {
		t.Fatalf("expected [es en], got %v", langs)
	}

	rec := group.Records[1]
	if rec.LocalID != home.LocalID() || rec.MenuName != "main" || rec.TranslationSource != "es" {
		t.Fatalf("unexpected record header %+v", rec)
	}
	if rec.Fields[menulinks.FieldTitle] != "Home" {
		t.Fatalf("unexpected title %v", rec.Fields[menulinks.FieldTitle])
	}
	for _, header := range []string{menulinks.FieldUUID, menulinks.FieldLangcode, menulinks.FieldMenuName} {
		if _, ok := rec.Fields[header]; ok {
			t.Fatalf("header field %s duplicated in fields", header)
		}
	}
	if !snap.ExportedAt.Equal(fixedNow) || snap.Menus[0] != "main" {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
}

func TestExportClearsPreviousSnapshot(t *testing.T) {
	f := newFixture(t, makeSnapshot(makeGroup(makeRecord(strayID, "en", "und", nil, "Old"))))
	f.seed(t, homeID, "main", "en", "Home", nil)

	if _, err := f.service.Export(context.Background(), ExportOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	stored, err := f.snapshots.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if stored.Len() != 1 || stored.Groups[0].Identity != homeID {
		t.Fatalf("expected the new snapshot only, got %+v", stored.Groups)
	}
	if stored.Contains(strayID, "en") {
		t.Fatalf("previous snapshot content survived")
	}
	if stored.Groups[0].Records[0].LocalID == uuid.Nil {
		t.Fatalf("local id should be exported")
	}
}

func TestExportRejectsInvalidMenuName(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.service.Export(context.Background(), ExportOptions{Menus: []string{"Not A Slug"}}); err == nil {
		t.Fatalf("expected invalid menu name to be rejected")
	}
}
