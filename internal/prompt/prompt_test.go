package prompt

import (
	"strings"
	"testing"

	"github.com/fbianco/proghelper/internal/persona"
	"github.com/fbianco/proghelper/internal/provider"
)

func TestLanguageDirective(t *testing.T) {
	t.Parallel()

	mirror := "Reply in the same language as the user's last message (Italian or English)."
	tests := []struct {
		tag  string
		want string
	}{
		{"", mirror},
		{"auto", mirror},
		{"detect", mirror},
		{"same", mirror},
		{"AUTO", mirror},
		{"it", "Reply in Italian."},
		{"it-IT", "Reply in Italian."},
		{"italian", "Reply in Italian."},
		{"en", "Reply in English."},
		{"en-US", "Reply in English."},
		{"fr", "Reply in the same language as the user's last message."},
	}
	for _, tt := range tests {
		if got := LanguageDirective(tt.tag); got != tt.want {
			t.Errorf("LanguageDirective(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestSystem_DefaultPrompt(t *testing.T) {
	t.Parallel()

	got := System(nil, "auto", nil, "")
	if !strings.Contains(got, "Programming Helper") {
		t.Error("default system prompt missing")
	}
	if !strings.Contains(got, "same language as the user's last message") {
		t.Error("language directive missing")
	}
	if strings.Contains(got, "Auxiliary code/context") {
		t.Error("code block should be absent without snippets or project context")
	}
	if got != strings.TrimSpace(got) {
		t.Error("system prompt should be trimmed")
	}
}

func TestSystem_PersonaWithExperiences(t *testing.T) {
	t.Parallel()

	p := &persona.Persona{
		Content:     "You are a grumpy reviewer.",
		Experiences: "saw a deadlock;\n",
	}
	got := System(p, "en", nil, "")

	if !strings.Contains(got, "You are a grumpy reviewer.") {
		t.Error("persona content missing")
	}
	if !strings.Contains(got, "Esperienze:\nsaw a deadlock;") {
		t.Errorf("experiences section missing, got:\n%s", got)
	}
	if !strings.Contains(got, "Reply in English.") {
		t.Error("language directive missing")
	}
	if strings.Contains(got, "Programming Helper") {
		t.Error("default prompt should be replaced by persona content")
	}
}

func TestSystem_PersonaWithoutExperiences(t *testing.T) {
	t.Parallel()

	p := &persona.Persona{Content: "You are terse."}
	got := System(p, "it", nil, "")
	if strings.Contains(got, "Esperienze:") {
		t.Error("empty experiences must not render a heading")
	}
}

func TestMessages_PrependsSystem(t *testing.T) {
	t.Parallel()

	history := []provider.Message{
		{Role: provider.RoleUser, Content: "hello"},
		{Role: provider.RoleAssistant, Content: "hi"},
	}
	msgs := Messages(history, "sys")

	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].Role != provider.RoleSystem || msgs[0].Content != "sys" {
		t.Errorf("msgs[0] = %+v, want system/sys", msgs[0])
	}
	if msgs[1].Content != "hello" || msgs[2].Content != "hi" {
		t.Error("history order not preserved")
	}
}

func TestFlatPrompt(t *testing.T) {
	t.Parallel()

	history := []provider.Message{
		{Role: provider.RoleUser, Content: "hello"},
		{Role: provider.RoleAssistant, Content: "hi"},
		{Role: provider.RoleUser, Content: "how are you"},
	}
	got := FlatPrompt(history)
	want := "user: hello\nassistant: hi\nuser: how are you"
	if got != want {
		t.Errorf("FlatPrompt = %q, want %q", got, want)
	}
}

func TestFlatPrompt_Empty(t *testing.T) {
	t.Parallel()

	if got := FlatPrompt(nil); got != "" {
		t.Errorf("FlatPrompt(nil) = %q, want empty", got)
	}
}
