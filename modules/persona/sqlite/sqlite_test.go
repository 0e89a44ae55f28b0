package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbianco/proghelper/internal/core"
	"github.com/fbianco/proghelper/internal/persona"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()

	dir := t.TempDir()
	m := &Module{
		config: Config{
			Path:        filepath.Join(dir, "test.db"),
			BusyTimeout: defaultBusyTimeout,
		},
	}
	m.config.defaults()

	ctx := core.NewAppContext(slog.Default(), dir)

	if err := m.Provision(ctx); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	t.Cleanup(func() {
		_ = m.Stop(context.Background())
	})

	return m
}

func TestSaveAndGet(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	saved, err := m.store.Save(ctx, persona.Persona{
		Name:    "reviewer",
		Version: "1",
		Content: "You are a code reviewer.",
		English: true,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("saved persona has no ID")
	}

	byID, err := m.store.GetByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Content != "You are a code reviewer." || !byID.English {
		t.Errorf("got %+v", byID)
	}

	byName, err := m.store.GetByName(ctx, "reviewer", "1")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName.ID != saved.ID {
		t.Errorf("ID = %d, want %d", byName.ID, saved.ID)
	}
}

func TestSaveUpsertsByNameVersion(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	first, err := m.store.Save(ctx, persona.Persona{Name: "reviewer", Version: "1", Content: "v1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := m.store.Save(ctx, persona.Persona{Name: "reviewer", Version: "1", Content: "v2"})
	if err != nil {
		t.Fatalf("save again: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert changed ID: %d -> %d", first.ID, second.ID)
	}
	if second.Content != "v2" {
		t.Errorf("Content = %q, want v2", second.Content)
	}
}

func TestGetMissing(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	if _, err := m.store.GetByID(ctx, 42); !errors.Is(err, persona.ErrNotFound) {
		t.Errorf("GetByID err = %v, want ErrNotFound", err)
	}
	if _, err := m.store.GetByName(ctx, "ghost", ""); !errors.Is(err, persona.ErrNotFound) {
		t.Errorf("GetByName err = %v, want ErrNotFound", err)
	}
}

func TestListHidesRestricted(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	for _, p := range []persona.Persona{
		{Name: "alpha", Content: "a"},
		{Name: "bravo", Content: "b", Restricted: true},
		{Name: "charlie", Content: "c"},
	} {
		if _, err := m.store.Save(ctx, p); err != nil {
			t.Fatalf("save %s: %v", p.Name, err)
		}
	}

	visible, err := m.store.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(visible))
	}
	if visible[0].Name != "alpha" || visible[1].Name != "charlie" {
		t.Errorf("visible = %v", visible)
	}

	all, err := m.store.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all = %d, want 3", len(all))
	}
}

func TestAppendExperience(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	if _, err := m.store.Save(ctx, persona.Persona{
		Name:        "reviewer",
		Version:     "1",
		Content:     "base",
		Experiences: "first lesson",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := m.store.AppendExperience(ctx, "reviewer", "1", "second lesson"); err != nil {
		t.Fatalf("append: %v", err)
	}

	p, err := m.store.GetByName(ctx, "reviewer", "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := "first lesson; second lesson;\n"
	if p.Experiences != want {
		t.Errorf("Experiences = %q, want %q", p.Experiences, want)
	}
	if !strings.HasSuffix(p.Experiences, ";\n") {
		t.Errorf("experience log must end with %q", ";\n")
	}
}

func TestAppendExperienceMissing(t *testing.T) {
	m := newTestModule(t)

	err := m.store.AppendExperience(context.Background(), "ghost", "", "text")
	if !errors.Is(err, persona.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	open := func() *Module {
		m := &Module{config: Config{Path: path, BusyTimeout: defaultBusyTimeout}}
		m.config.defaults()
		if err := m.Provision(core.NewAppContext(slog.Default(), dir)); err != nil {
			t.Fatalf("provision: %v", err)
		}
		return m
	}

	m := open()
	if _, err := m.store.Save(ctx, persona.Persona{Name: "keeper", Content: "persists"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	m = open()
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	p, err := m.store.GetByName(ctx, "keeper", "")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if p.Content != "persists" {
		t.Errorf("Content = %q", p.Content)
	}
}
