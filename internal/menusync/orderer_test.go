package menusync

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-structure-sync/internal/snapshot"
)

func collectPasses(t *testing.T, o *Orderer) ([][]uuid.UUID, error) {
	t.Helper()
	var passes [][]uuid.UUID
	for pass, err := range o.Passes() {
		if err != nil {
			return passes, err
		}
		ids := make([]uuid.UUID, 0, len(pass))
		for _, g := range pass {
			ids = append(ids, g.Identity)
		}
		passes = append(passes, ids)
	}
	return passes, nil
}

func TestOrdererReleasesParentsFirst(t *testing.T) {
	o := NewOrderer([]snapshot.Group{
		makeGroup(makeRecord(teamID, "en", "und", parentOf(aboutID), "C")),
		makeGroup(makeRecord(aboutID, "en", "und", parentOf(homeID), "B")),
		makeGroup(makeRecord(homeID, "en", "und", nil, "A")),
	})

	passes, err := collectPasses(t, o)
	if err != nil {
		t.Fatalf("passes: %v", err)
	}
	want := [][]uuid.UUID{{homeID}, {aboutID}, {teamID}}
	if len(passes) != len(want) {
		t.Fatalf("expected %d passes, got %v", len(want), passes)
	}
	for i := range want {
		if len(passes[i]) != 1 || passes[i][0] != want[i][0] {
			t.Fatalf("pass %d: expected %v, got %v", i, want[i], passes[i])
		}
	}
	if o.PassCount() != 3 {
		t.Fatalf("expected pass count 3, got %d", o.PassCount())
	}
}

func TestOrdererTreatsExternalParentsAsRoots(t *testing.T) {
	external := uuid.MustParse("99999999-9999-4999-8999-999999999999")
	o := NewOrderer([]snapshot.Group{
		makeGroup(makeRecord(homeID, "en", "und", parentOf(external), "Home")),
		makeGroup(makeRecord(aboutID, "en", "und", nil, "About")),
	})

	passes, err := collectPasses(t, o)
	if err != nil {
		t.Fatalf("passes: %v", err)
	}
	if len(passes) != 1 || len(passes[0]) != 2 {
		t.Fatalf("expected a single pass with both groups, got %v", passes)
	}
}

func TestOrdererResolvesParentByLocalID(t *testing.T) {
	home := withLocalID(makeRecord(homeID, "en", "und", nil, "Home"), homeLocal)
	about := makeRecord(aboutID, "en", "und", parentOf(homeLocal), "About")
	o := NewOrderer([]snapshot.Group{makeGroup(about), makeGroup(home)})

	parent, ok := o.ParentIdentity(makeGroup(about))
	if !ok || parent != homeID {
		t.Fatalf("expected parent %s, got %s (%v)", homeID, parent, ok)
	}

	passes, err := collectPasses(t, o)
	if err != nil {
		t.Fatalf("passes: %v", err)
	}
	if len(passes) != 2 || passes[0][0] != homeID {
		t.Fatalf("expected home before about, got %v", passes)
	}
}

func TestOrdererReportsCycles(t *testing.T) {
	groups := []snapshot.Group{
		makeGroup(makeRecord(homeID, "en", "und", parentOf(aboutID), "X")),
		makeGroup(makeRecord(aboutID, "en", "und", parentOf(homeID), "Y")),
	}
	o := NewOrderer(groups)

	passes, err := collectPasses(t, o)
	if len(passes) != 0 {
		t.Fatalf("expected no pass, got %v", passes)
	}
	var ordering *OrderingError
	if !errors.As(err, &ordering) {
		t.Fatalf("expected OrderingError, got %v", err)
	}
	if len(ordering.Stuck) != 2 || ordering.Passes > len(groups) {
		t.Fatalf("unexpected ordering error %+v", ordering)
	}
}

func TestOrdererSelfParentIsStuck(t *testing.T) {
	o := NewOrderer([]snapshot.Group{
		makeGroup(makeRecord(homeID, "en", "und", parentOf(homeID), "Loop")),
	})
	if _, err := collectPasses(t, o); !errors.Is(err, ErrOrdering) {
		t.Fatalf("expected ErrOrdering, got %v", err)
	}
}

func TestOrdererResumesAfterEarlyStop(t *testing.T) {
	o := NewOrderer([]snapshot.Group{
		makeGroup(makeRecord(aboutID, "en", "und", parentOf(homeID), "About")),
		makeGroup(makeRecord(homeID, "en", "und", nil, "Home")),
	})

	for pass, err := range o.Passes() {
		if err != nil {
			t.Fatalf("first pass: %v", err)
		}
		if len(pass) != 1 || pass[0].Identity != homeID {
			t.Fatalf("unexpected first pass %v", pass)
		}
		break
	}

	passes, err := collectPasses(t, o)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if len(passes) != 1 || passes[0][0] != aboutID {
		t.Fatalf("expected the resumed iteration to release About, got %v", passes)
	}
	if o.PassCount() != 2 {
		t.Fatalf("expected pass count 2, got %d", o.PassCount())
	}
}
