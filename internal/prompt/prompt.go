// Package prompt assembles the final system prompt and the provider
// message representations from a persona, language tag, code snippets,
// and stored conversation history.
package prompt

import (
	"strings"

	"github.com/fbianco/proghelper/internal/persona"
	"github.com/fbianco/proghelper/internal/provider"
)

// DefaultSystem is the built-in system prompt used when no persona is
// selected.
const DefaultSystem = `You are **Programming Helper**, a senior software engineer and ruthless code reviewer.
Be pragmatic, precise, and *useful*. Favor actionable fixes over theory.

## Language
- Default to the **user's language** (Italian/English) unless a language is specified.
- Keep tone professional, concise, and direct.

## How to answer
1) If code is provided:
   - Briefly summarize what it does (1-2 lines).
   - Identify the likely issue(s) or design smells.
   - Propose the **minimal** fix first; then list alternatives (with trade-offs).
   - Provide **runnable code** or **unified diffs** in fenced blocks.
   - Include imports and any required config.
2) If the ask is ambiguous:
   - Ask **at most 1-2 clarifying questions** *only if* they block progress.
   - Otherwise, state assumptions and proceed.
3) When changing files:
   - Prefer diff format (unified) or a full updated file in one block.
4) Testing & safety:
   - Include a quick test or command to verify the fix (pytest, curl, CLI, etc.).
   - Warn about destructive commands. Never fabricate results.

## Formatting
- Use markdown. Label code fences with the language.
- Use short paragraphs and bullet points. No fluff.

## Limits
- If you don't know, say so and suggest how to find out.
- Don't hallucinate APIs or versions; call them out as *assumptions* if uncertain.`

// LanguageDirective resolves a language tag into the reply-language
// instruction. Absent tags and the auto/detect/same aliases instruct the
// model to mirror the user's last message; "it*" forces Italian, "en*"
// forces English; anything else falls back to mirroring.
func LanguageDirective(tag string) string {
	lower := strings.ToLower(tag)
	switch {
	case lower == "" || lower == "auto" || lower == "detect" || lower == "same":
		return "Reply in the same language as the user's last message (Italian or English)."
	case strings.HasPrefix(lower, "it"):
		return "Reply in Italian."
	case strings.HasPrefix(lower, "en"):
		return "Reply in English."
	default:
		return "Reply in the same language as the user's last message."
	}
}

// System builds the final system prompt: persona body (with experiences
// under an "Esperienze:" heading) or the default prompt, the language
// directive, and the optional code/context block, blank-line separated
// and trimmed.
func System(p *persona.Persona, langTag string, snippets []Snippet, projectContext string) string {
	base := DefaultSystem
	if p != nil {
		base = p.Content
		if p.Experiences != "" {
			base = base + "\n\nEsperienze:\n" + p.Experiences
		}
	}

	directive := LanguageDirective(langTag)
	codeBlock := CodeContext(snippets, projectContext, DefaultContextBudget)

	return strings.TrimSpace(base + "\n\n" + directive + "\n\n" + codeBlock)
}

// Messages builds the canonical chat message list: a system-role message
// with the final prompt followed by every stored turn in order.
func Messages(history []provider.Message, system string) []provider.Message {
	msgs := make([]provider.Message, 0, len(history)+1)
	msgs = append(msgs, provider.Message{Role: provider.RoleSystem, Content: system})
	msgs = append(msgs, history...)
	return msgs
}

// FlatPrompt renders history as "<role>: <text>" lines for providers that
// take a single prompt string instead of a message list.
func FlatPrompt(history []provider.Message) string {
	var b strings.Builder
	for i, m := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
