package prompt

import (
	"strings"
	"unicode/utf8"
)

// DefaultContextBudget is the combined character budget for rendered
// snippet blocks.
const DefaultContextBudget = 12000

// Snippet is a user-supplied code file attached to a chat request.
type Snippet struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// CodeContext renders the auxiliary code/context block. Returns an empty
// string when there are no snippets and no project context, so the block
// is omitted from the final prompt entirely.
//
// Snippet blocks share a single character budget. When adding the next
// whole block would exceed it, that block is truncated to the remaining
// budget with a truncation marker and processing stops; when the budget
// is already spent, a truncation notice is appended instead.
func CodeContext(snippets []Snippet, projectContext string, maxChars int) string {
	if len(snippets) == 0 && projectContext == "" {
		return ""
	}

	var parts []string
	if projectContext != "" {
		parts = append(parts, "Project context:\n"+strings.TrimSpace(projectContext))
	}

	total := 0
	for _, sn := range snippets {
		name := strings.TrimSpace(sn.Filename)
		if name == "" {
			name = "snippet"
		}
		lang := strings.TrimSpace(sn.Language)
		code := strings.TrimSpace(sn.Content)
		if code == "" {
			continue
		}

		header := "\n--- BEGIN FILE: " + name + " ---\n"
		fenceOpen := "```\n"
		if lang != "" {
			fenceOpen = "```" + lang + "\n"
		}
		block := header + fenceOpen + code + "\n```\n--- END FILE ---\n"

		if total+len(block) > maxChars {
			remaining := maxChars - total
			if remaining <= 0 {
				parts = append(parts, "\n[Truncated additional code due to size limit]")
				break
			}
			// Clip on a rune boundary so the block stays valid UTF-8.
			for remaining > 0 && !utf8.RuneStart(block[remaining]) {
				remaining--
			}
			parts = append(parts, block[:remaining]+"\n[...truncated]\n")
			break
		}
		parts = append(parts, block)
		total += len(block)
	}

	return "Auxiliary code/context provided by the user (treat as source of truth when relevant):\n" +
		strings.Join(parts, "") +
		"\nEnd of auxiliary context.\n"
}
