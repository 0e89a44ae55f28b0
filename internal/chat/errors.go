package chat

import "errors"

// Sentinel errors for the orchestrator and store.
var (
	// ErrEmptyMessage indicates the request carried no message text.
	ErrEmptyMessage = errors.New("message required")

	// ErrTurnLimit indicates the conversation reached its user-turn cap.
	// Recoverable by the caller via a "reset" message.
	ErrTurnLimit = errors.New("turn limit reached")
)
