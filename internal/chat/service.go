package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbianco/proghelper/internal/persona"
	"github.com/fbianco/proghelper/internal/prompt"
	"github.com/fbianco/proghelper/internal/provider"
)

// ResetReply is returned when a conversation is cleared.
const ResetReply = "Conversation has been reset."

// Request is one inbound chat message with its routing parameters.
// Fields mirror the HTTP request body after defaulting.
type Request struct {
	Message        string
	Provider       string
	Size           provider.Size
	Verbosity      provider.Verbosity
	Lang           string
	Character      string
	Topic          string
	PersonaID      int64
	Snippets       []prompt.Snippet
	ProjectContext string
}

// Result is the outcome of a handled chat request.
type Result struct {
	// Reply is the assistant text, or ResetReply after a reset.
	Reply string

	// Reset is true when the message was a reset command and no
	// provider was contacted.
	Reset bool

	// Conversations is the character's logs grouped by persona name
	// (or by character for persona-less logs).
	Conversations map[string][]provider.Message

	// System and FlatPrompt are diagnostic echoes of the dispatched
	// prompt, populated for debug responses.
	System     string
	FlatPrompt string

	// Persona is the resolved persona, if any.
	Persona *persona.Persona
}

// Service is the request orchestrator: it validates input, derives the
// conversation key, enforces the turn cap, assembles the prompt,
// dispatches to the selected provider, and records both turns.
type Service struct {
	store     *Store
	personas  persona.Store
	providers *provider.Registry
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewService creates a Service. personas may be nil when no persona
// backend is configured; persona lookups then always miss.
func NewService(store *Store, personas persona.Store, providers *provider.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		personas:  personas,
		providers: providers,
		logger:    logger,
		tracer:    otel.Tracer("proghelper/chat"),
	}
}

// Store exposes the underlying conversation store.
func (s *Service) Store() *Store { return s.store }

// Handle runs one chat request to completion.
//
// The store lock is never held across the provider call, and the user
// turn is not rolled back when the provider fails: the user's
// contribution to history persists even when no reply could be produced.
func (s *Service) Handle(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	character := strings.TrimSpace(req.Character)
	if character == "" {
		character = DefaultCharacter
	}

	ctx, span := s.tracer.Start(ctx, "chat.handle", trace.WithAttributes(
		attribute.String("chat.provider", req.Provider),
		attribute.String("chat.character", character),
		attribute.String("chat.size", string(req.Size)),
	))
	defer span.End()

	personaObj := s.lookupPersona(ctx, req.PersonaID)
	personaID := DefaultPersonaID
	if personaObj != nil {
		personaID = personaObj.ID
	} else if topic := strings.TrimSpace(req.Topic); topic != "" {
		personaID = TopicPersonaID(topic)
	}

	key := NewKey(character, personaID)

	if strings.EqualFold(text, "reset") {
		s.store.Reset(key)
		s.logger.Info("conversation reset", "character", character, "persona_id", personaID)
		return &Result{Reply: ResetReply, Reset: true}, nil
	}

	history, err := s.store.AppendUser(key, text)
	if err != nil {
		return nil, err
	}

	system := prompt.System(personaObj, req.Lang, req.Snippets, req.ProjectContext)
	flat := prompt.FlatPrompt(history)

	p, err := s.providers.Get(req.Provider)
	if err != nil {
		return nil, err
	}
	model := p.ResolveModel(req.Size)
	s.logger.Info("dispatching", "provider", p.Name(), "model", model, "character", character)

	invokeCtx, invokeSpan := s.tracer.Start(ctx, "provider.invoke", trace.WithAttributes(
		attribute.String("llm.provider", p.Name()),
		attribute.String("llm.model", model),
	))
	reply, err := p.Invoke(invokeCtx, provider.Request{
		Messages:   prompt.Messages(history, system),
		FlatPrompt: flat,
		System:     system,
		Model:      model,
		Verbosity:  req.Verbosity,
		MaxTokens:  provider.MaxReplyTokens,
	})
	if err != nil {
		invokeSpan.RecordError(err)
		invokeSpan.End()
		return nil, err
	}
	invokeSpan.End()

	s.store.AppendAssistant(key, reply)

	return &Result{
		Reply:         reply,
		Conversations: s.dump(ctx, character),
		System:        system,
		FlatPrompt:    flat,
		Persona:       personaObj,
	}, nil
}

// Conversations returns the character's logs grouped by persona name.
func (s *Service) Conversations(ctx context.Context, character string) map[string][]provider.Message {
	if strings.TrimSpace(character) == "" {
		character = DefaultCharacter
	}
	return s.dump(ctx, character)
}

// lookupPersona resolves a persona ID, treating the sentinel, a missing
// backend, and lookup misses all as "no persona".
func (s *Service) lookupPersona(ctx context.Context, id int64) *persona.Persona {
	if id == DefaultPersonaID || s.personas == nil {
		return nil
	}
	p, err := s.personas.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, persona.ErrNotFound) {
			s.logger.Warn("persona lookup failed", "persona_id", id, "error", err)
		}
		return nil
	}
	return p
}

// dump groups the character's logs by persona display name. Pseudo
// identifiers (the sentinel and topic-derived IDs) fall back to the
// character name; real identifiers that no longer resolve are skipped.
func (s *Service) dump(ctx context.Context, character string) map[string][]provider.Message {
	return s.store.Dump(character, func(id int64) (string, bool) {
		if id == DefaultPersonaID || id <= -100000 {
			return character, true
		}
		if s.personas == nil {
			return "", false
		}
		p, err := s.personas.GetByID(ctx, id)
		if err != nil {
			return "", false
		}
		return p.Name, true
	})
}
