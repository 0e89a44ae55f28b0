package persona

import (
	"context"
	"errors"
	"testing"
)

func TestMergeExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		text     string
		want     string
	}{
		{
			name:     "empty log",
			existing: "",
			text:     "likes Go",
			want:     "likes Go;\n",
		},
		{
			name:     "existing without separator",
			existing: "knows Python",
			text:     "likes Go",
			want:     "knows Python; likes Go;\n",
		},
		{
			name:     "existing with separator and trailing newline",
			existing: "knows Python;\n",
			text:     "likes Go",
			want:     "knows Python; likes Go;\n",
		},
		{
			name:     "trailing whitespace trimmed",
			existing: "knows Python   ",
			text:     "likes Go",
			want:     "knows Python; likes Go;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MergeExperience(tt.existing, tt.text); got != tt.want {
				t.Errorf("MergeExperience(%q, %q) = %q, want %q", tt.existing, tt.text, got, tt.want)
			}
		})
	}
}

func TestInMemoryStore_Lookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewInMemoryStore()
	stored := store.Put(Persona{Name: "reviewer", Version: "1", Content: "You review code."})

	byID, err := store.GetByID(ctx, stored.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Name != "reviewer" {
		t.Errorf("Name = %q, want %q", byID.Name, "reviewer")
	}

	byName, err := store.GetByName(ctx, "reviewer", "1")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != stored.ID {
		t.Errorf("ID = %d, want %d", byName.ID, stored.ID)
	}

	if _, err := store.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(999) err = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_ListFiltersRestricted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewInMemoryStore()
	store.Put(Persona{Name: "open", Version: "1"})
	store.Put(Persona{Name: "hidden", Version: "1", Restricted: true})

	visible, err := store.List(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].Name != "open" {
		t.Errorf("List(false) = %v, want only open", visible)
	}

	all, err := store.List(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("List(true) len = %d, want 2", len(all))
	}
	if all[0].Name != "hidden" {
		t.Errorf("List(true)[0] = %q, want sorted by name", all[0].Name)
	}
}

func TestInMemoryStore_AppendExperience(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewInMemoryStore()
	store.Put(Persona{Name: "reviewer", Version: "1"})

	if err := store.AppendExperience(ctx, "reviewer", "1", "saw a deadlock"); err != nil {
		t.Fatalf("AppendExperience: %v", err)
	}
	if err := store.AppendExperience(ctx, "reviewer", "1", "fixed it"); err != nil {
		t.Fatalf("AppendExperience: %v", err)
	}

	p, err := store.GetByName(ctx, "reviewer", "1")
	if err != nil {
		t.Fatal(err)
	}
	want := "saw a deadlock; fixed it;\n"
	if p.Experiences != want {
		t.Errorf("Experiences = %q, want %q", p.Experiences, want)
	}

	if err := store.AppendExperience(ctx, "ghost", "1", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
