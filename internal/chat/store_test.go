package chat

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fbianco/proghelper/internal/provider"
)

func TestNewKey_AnonymousDefault(t *testing.T) {
	t.Parallel()

	key := NewKey("", 5)
	if key.Character != "anonymous" {
		t.Errorf("Character = %q, want %q", key.Character, "anonymous")
	}
}

func TestKey_Identity(t *testing.T) {
	t.Parallel()

	a1 := NewKey("a", 5)
	a2 := NewKey("a", 5)
	b := NewKey("a", 6)

	if a1 != a2 {
		t.Error("identical (character, persona) must compare equal")
	}
	if a1 == b {
		t.Error("distinct persona IDs must compare unequal")
	}

	store := NewStore()
	if _, err := store.AppendUser(a1, "hi"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AppendUser(b, "hello"); err != nil {
		t.Fatal(err)
	}
	if got := len(store.History(a2)); got != 1 {
		t.Errorf("History(a2) len = %d, want 1 (same log as a1)", got)
	}
	if got := len(store.History(b)); got != 1 {
		t.Errorf("History(b) len = %d, want 1 (separate log)", got)
	}
}

func TestMaxUserMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		character string
		want      int
	}{
		{"developer", 24},
		{"master", 200},
		{"MASTER", 200},
		{"Master", 200},
		{"apprentice", 24},
	}
	for _, tt := range tests {
		if got := MaxUserMessages(tt.character); got != tt.want {
			t.Errorf("MaxUserMessages(%q) = %d, want %d", tt.character, got, tt.want)
		}
	}
}

func TestTopicPersonaID_Deterministic(t *testing.T) {
	t.Parallel()

	a := TopicPersonaID("generics")
	b := TopicPersonaID("generics")
	c := TopicPersonaID("channels")

	if a != b {
		t.Errorf("same topic produced %d and %d", a, b)
	}
	if a == c {
		t.Error("distinct topics should produce distinct IDs (hash collision in test data)")
	}
	if a >= -100000 {
		t.Errorf("topic ID %d must sit below the real persona ID range", a)
	}
}

func TestStore_EvictionInvariant(t *testing.T) {
	t.Parallel()

	store := NewStore()
	key := NewKey("developer", DefaultPersonaID)
	bound := 2 * MaxUserMessages("developer")

	// Exhaust the user cap, replying each time so appends keep flowing.
	for i := 0; i < MaxUserMessages("developer"); i++ {
		if _, err := store.AppendUser(key, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("AppendUser(%d): %v", i, err)
		}
		store.AppendAssistant(key, fmt.Sprintf("reply %d", i))
	}
	if got := len(store.History(key)); got > bound {
		t.Errorf("history len = %d, exceeds bound %d", got, bound)
	}

	// Assistant turns keep evicting; the bound must hold and order stays FIFO.
	for i := 0; i < 10; i++ {
		store.AppendAssistant(key, fmt.Sprintf("extra %d", i))
	}
	history := store.History(key)
	if len(history) != bound {
		t.Errorf("history len = %d, want %d", len(history), bound)
	}
	if history[len(history)-1].Content != "extra 9" {
		t.Errorf("newest turn = %q, want %q", history[len(history)-1].Content, "extra 9")
	}
}

func TestStore_TurnCapRejectsWithoutMutating(t *testing.T) {
	t.Parallel()

	store := NewStore()
	key := NewKey("developer", DefaultPersonaID)
	limit := MaxUserMessages("developer")

	for i := 0; i < limit; i++ {
		if _, err := store.AppendUser(key, "u"); err != nil {
			t.Fatalf("AppendUser(%d): %v", i, err)
		}
	}

	before := len(store.History(key))
	_, err := store.AppendUser(key, "one too many")
	if !errors.Is(err, ErrTurnLimit) {
		t.Fatalf("err = %v, want ErrTurnLimit", err)
	}
	if after := len(store.History(key)); after != before {
		t.Errorf("history mutated on rejected append: %d -> %d", before, after)
	}
	if store.UserTurns(key) != limit {
		t.Errorf("UserTurns = %d, want %d", store.UserTurns(key), limit)
	}
}

func TestStore_AssistantTurnsDontCountAgainstCap(t *testing.T) {
	t.Parallel()

	store := NewStore()
	key := NewKey("developer", DefaultPersonaID)

	store.AppendAssistant(key, "unsolicited")
	store.AppendAssistant(key, "more")
	if got := store.UserTurns(key); got != 0 {
		t.Errorf("UserTurns = %d, want 0", got)
	}
	if _, err := store.AppendUser(key, "hi"); err != nil {
		t.Errorf("AppendUser after assistant turns: %v", err)
	}
}

func TestStore_Reset(t *testing.T) {
	t.Parallel()

	store := NewStore()
	key := NewKey("developer", DefaultPersonaID)
	if _, err := store.AppendUser(key, "hi"); err != nil {
		t.Fatal(err)
	}

	store.Reset(key)
	if got := store.History(key); got != nil {
		t.Errorf("History after reset = %v, want nil", got)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestStore_AppendUserReturnsSnapshot(t *testing.T) {
	t.Parallel()

	store := NewStore()
	key := NewKey("developer", DefaultPersonaID)

	snap, err := store.AppendUser(key, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 1 || snap[0].Role != provider.RoleUser || snap[0].Content != "hello" {
		t.Errorf("snapshot = %+v, want single user turn", snap)
	}

	// Mutating the snapshot must not affect the store.
	snap[0].Content = "tampered"
	if store.History(key)[0].Content != "hello" {
		t.Error("snapshot aliases store memory")
	}
}

func TestStore_Dump(t *testing.T) {
	t.Parallel()

	store := NewStore()
	k1 := NewKey("developer", 1)
	k2 := NewKey("developer", 2)
	k3 := NewKey("other", 1)

	for _, k := range []Key{k1, k2, k3} {
		if _, err := store.AppendUser(k, "hi "+k.Character); err != nil {
			t.Fatal(err)
		}
	}

	names := map[int64]string{1: "reviewer"}
	dump := store.Dump("developer", func(id int64) (string, bool) {
		name, ok := names[id]
		return name, ok
	})

	if len(dump) != 1 {
		t.Fatalf("dump keys = %d, want 1 (unresolved persona skipped)", len(dump))
	}
	turns, ok := dump["reviewer"]
	if !ok || len(turns) != 1 {
		t.Fatalf("dump[reviewer] = %v", turns)
	}
	if turns[0].Content != "hi developer" {
		t.Errorf("content = %q", turns[0].Content)
	}
}

func TestStore_ConcurrentAppendsHoldBound(t *testing.T) {
	t.Parallel()

	store := NewStore()
	key := NewKey("developer", DefaultPersonaID)
	limit := MaxUserMessages("developer")

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 4*limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.AppendUser(key, "x"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != limit {
		t.Errorf("accepted = %d, want exactly %d", accepted, limit)
	}
	if store.UserTurns(key) != limit {
		t.Errorf("UserTurns = %d, want %d", store.UserTurns(key), limit)
	}
}
