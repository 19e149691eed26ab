package llm

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(7, "Nash equilibrium is a strategy profile.")

	if !strings.Contains(prompt, "Page 7 text:") {
		t.Error("prompt missing page number")
	}
	if !strings.Contains(prompt, "Nash equilibrium is a strategy profile.") {
		t.Error("prompt missing page text")
	}
	// The page number is substituted into the fact templates too
	if !strings.Contains(prompt, "concept(name, 7, \"definition\").") {
		t.Error("prompt missing concept template with page number")
	}
	for _, pred := range []string{"concept(", "relates(", "example(", "formula("} {
		if !strings.Contains(prompt, pred) {
			t.Errorf("prompt missing %s template", pred)
		}
	}
	for _, rel := range []string{"requires", "illustrates", "contrasts", "extends", "contains"} {
		if !strings.Contains(prompt, rel) {
			t.Errorf("prompt missing relation type %s", rel)
		}
	}
	if !strings.Contains(prompt, "% No concepts on this page") {
		t.Error("prompt missing empty-page escape hatch")
	}
}

func TestBuildPrompt_EscapesLiteralPercents(t *testing.T) {
	// The template contains literal % characters; make sure Sprintf
	// substitution leaves them intact.
	prompt := BuildPrompt(1, "text")
	if strings.Contains(prompt, "%!") {
		t.Errorf("bad format verb leaked into prompt:\n%s", prompt)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "bard"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewProvider(Config{}); err == nil {
		t.Error("expected error when no provider configured")
	}
}

func TestIsRateLimited(t *testing.T) {
	rl := &RateLimitError{Provider: "openai"}
	if !IsRateLimited(rl) {
		t.Error("RateLimitError should classify as rate limited")
	}
	if IsRateLimited(&ServiceError{Provider: "openai"}) {
		t.Error("ServiceError should not classify as rate limited")
	}
	if IsRateLimited(nil) {
		t.Error("nil should not classify as rate limited")
	}
}
