// Package provider defines the uniform abstraction over upstream language
// model APIs. Concrete implementations live in modules/provider and
// register themselves with the runtime Registry during provisioning.
package provider

import "context"

// Provider is the interface for communicating with one upstream LLM API.
type Provider interface {
	// Name returns the routing name callers use to select this provider
	// (e.g. "ollama", "mistral").
	Name() string

	// ResolveModel maps a size tier to a concrete model identifier.
	// Unknown tiers resolve to the provider's default model.
	ResolveModel(size Size) string

	// Invoke sends a completion request and returns the reply text.
	// It must verify its credential/dependency before any network call
	// and return an error wrapping ErrNotConfigured when missing.
	// Transport, auth, and parse failures wrap ErrUnavailable.
	Invoke(ctx context.Context, req Request) (string, error)
}

// Size is the coarse model-capability tier, independent of provider.
type Size string

// Size tiers.
const (
	SizeSmall     Size = "s"
	SizeMedium    Size = "m"
	SizeLarge     Size = "l"
	SizeReasoning Size = "r"
)

// Verbosity is a reply-length hint. Only the OpenAI provider honors it.
type Verbosity string

// Verbosity levels.
const (
	VerbosityLow    Verbosity = "low"
	VerbosityMedium Verbosity = "medium"
	VerbosityHigh   Verbosity = "high"
)

// NormalizeVerbosity maps arbitrary input to a valid verbosity,
// defaulting to medium.
func NormalizeVerbosity(s string) Verbosity {
	switch Verbosity(s) {
	case VerbosityLow, VerbosityMedium, VerbosityHigh:
		return Verbosity(s)
	default:
		return VerbosityMedium
	}
}

// Role identifies the sender of a message in a conversation.
type Role string

// Role constants for conversation messages.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MaxReplyTokens is the token budget granted to the assistant reply.
const MaxReplyTokens = 10000

// Request is the input to a Provider.Invoke call. Chat-style providers
// consume Messages; Ollama consumes FlatPrompt. Both carry the final
// system prompt separately.
type Request struct {
	Messages   []Message
	FlatPrompt string
	System     string
	Model      string
	Verbosity  Verbosity
	MaxTokens  int
}
