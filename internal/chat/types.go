// Package chat holds the conversation domain: composite conversation keys,
// the bounded in-process history store, and the request orchestrator.
package chat

import (
	"hash/fnv"
	"strings"
)

// DefaultPersonaID is the sentinel persona identifier meaning "no persona".
const DefaultPersonaID int64 = -42042

// DefaultCharacter groups conversations when the caller names none.
const DefaultCharacter = "developer"

// Key is the composite identity of one conversation log. Two requests with
// the same (Character, PersonaID) always resolve to the same log.
type Key struct {
	Character string
	PersonaID int64
}

// NewKey builds a Key, substituting "anonymous" for an empty character.
func NewKey(character string, personaID int64) Key {
	if character == "" {
		character = "anonymous"
	}
	return Key{Character: character, PersonaID: personaID}
}

// MaxUserMessages returns the per-conversation user-turn cap for a
// character. The "master" character (case-insensitive) gets a larger cap.
func MaxUserMessages(character string) int {
	if strings.EqualFold(character, "master") {
		return 200
	}
	return 24
}

// TopicPersonaID derives a deterministic pseudo persona identifier from a
// topic, so distinct topics under one character partition into distinct
// logs without a persona. Always negative and outside the range of real
// persona IDs.
func TopicPersonaID(topic string) int64 {
	h := fnv.New32a()
	h.Write([]byte("ph:"))
	h.Write([]byte(topic))
	return -(100000 + int64(h.Sum32()%1000000))
}
