package chat

import (
	"sync"

	"github.com/fbianco/proghelper/internal/provider"
)

// ring is a fixed-capacity FIFO of conversation turns. When full, push
// evicts the oldest turn. Not safe for concurrent use; the Store's lock
// guards it.
type ring struct {
	turns []provider.Message
	start int
	count int
}

func newRing(capacity int) *ring {
	return &ring{turns: make([]provider.Message, capacity)}
}

func (r *ring) push(m provider.Message) {
	if r.count == len(r.turns) {
		// Overwrite the oldest slot.
		r.turns[r.start] = m
		r.start = (r.start + 1) % len(r.turns)
		return
	}
	r.turns[(r.start+r.count)%len(r.turns)] = m
	r.count++
}

func (r *ring) snapshot() []provider.Message {
	out := make([]provider.Message, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.turns[(r.start+i)%len(r.turns)]
	}
	return out
}

func (r *ring) userTurns() int {
	n := 0
	for i := 0; i < r.count; i++ {
		if r.turns[(r.start+i)%len(r.turns)].Role == provider.RoleUser {
			n++
		}
	}
	return n
}

// Store is the process-wide conversation history. One mutex serializes
// every operation on every log: conversation volume is low enough that
// the single lock is not a bottleneck, but all conversations contend
// on it.
//
// The lock is only held for the brief check/append/reset/dump critical
// sections, never across a provider network call.
type Store struct {
	mu   sync.Mutex
	logs map[Key]*ring
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{logs: make(map[Key]*ring)}
}

// AppendUser appends a user turn after checking the turn cap, as a single
// atomic critical section. Only user-role turns count against the cap.
// At the cap it returns ErrTurnLimit without mutating the log; otherwise
// it returns an ordered snapshot of the log including the new turn.
func (s *Store) AppendUser(key Key, text string) ([]provider.Message, error) {
	limit := MaxUserMessages(key.Character)

	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[key]
	if !ok {
		log = newRing(2 * limit)
		s.logs[key] = log
	}
	if log.userTurns() >= limit {
		return nil, ErrTurnLimit
	}
	log.push(provider.Message{Role: provider.RoleUser, Content: text})
	return log.snapshot(), nil
}

// AppendAssistant appends an assistant turn, evicting the oldest turn if
// the log is full. Assistant turns are never capped.
func (s *Store) AppendAssistant(key Key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[key]
	if !ok {
		log = newRing(2 * MaxUserMessages(key.Character))
		s.logs[key] = log
	}
	log.push(provider.Message{Role: provider.RoleAssistant, Content: text})
}

// Reset deletes the entire log for the key.
func (s *Store) Reset(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, key)
}

// History returns an ordered snapshot of the log for the key.
func (s *Store) History(key Key) []provider.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[key]
	if !ok {
		return nil
	}
	return log.snapshot()
}

// UserTurns returns the number of user-role turns stored for the key.
func (s *Store) UserTurns(key Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[key]
	if !ok {
		return 0
	}
	return log.userTurns()
}

// Len returns the number of live conversation logs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

// Dump returns the logs of one character grouped by persona display name.
// resolve maps a persona identifier to its display name; identifiers that
// no longer resolve are silently skipped.
func (s *Store) Dump(character string, resolve func(int64) (string, bool)) map[string][]provider.Message {
	if character == "" {
		character = "anonymous"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string][]provider.Message)
	for key, log := range s.logs {
		if key.Character != character {
			continue
		}
		name, ok := resolve(key.PersonaID)
		if !ok {
			continue
		}
		result[name] = append(result[name], log.snapshot()...)
	}
	return result
}
