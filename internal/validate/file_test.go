package validate

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleKnowledgeBase = `%% Knowledge Base
:- dynamic concept/3.
:- dynamic relates/3.

valid_relation_type(requires).

% === Page 3 ===
concept(nash_equilibrium, 3, "A strategy profile").
broken line without shape
relates(nash_equilibrium, best_response, requires).
mystery(a, b).
`

func TestReader(t *testing.T) {
	ok, diags, err := Reader(strings.NewReader(sampleKnowledgeBase))
	if err != nil {
		t.Fatalf("Reader() error: %v", err)
	}
	if ok {
		t.Fatal("expected validation failure")
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0], "Line 9:") || !strings.Contains(diags[0], "invalid fact syntax") {
		t.Errorf("unexpected first diagnostic: %s", diags[0])
	}
	if !strings.Contains(diags[1], "Line 11:") || !strings.Contains(diags[1], "unknown predicate: mystery") {
		t.Errorf("unexpected second diagnostic: %s", diags[1])
	}
}

func TestReader_SkipsDirectivesAndComments(t *testing.T) {
	clean := `:- dynamic concept/3.
% comment
concept(a, 1, "x").

valid_relation_type(requires).
`
	// valid_relation_type is not an extraction predicate, but the preamble
	// declares it, so the file audit must not reject its own schema.
	ok, diags, err := Reader(strings.NewReader(clean))
	if err != nil {
		t.Fatalf("Reader() error: %v", err)
	}
	if !ok {
		t.Fatalf("expected clean audit, got diagnostics %v", diags)
	}
}

func TestReader_MalformedRelationTypeDeclaration(t *testing.T) {
	input := `valid_relation_type(requires).
valid_relation_type(junk
concept(a, 1, "x").
`
	ok, diags, err := Reader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Reader() error: %v", err)
	}
	if ok {
		t.Fatal("expected malformed declaration to fail the audit")
	}
	if len(diags) != 1 || !strings.Contains(diags[0], "Line 2:") {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(diags[0], "unbalanced parentheses") {
		t.Errorf("unexpected diagnostic: %s", diags[0])
	}
}

func TestReader_OverlongLine(t *testing.T) {
	// A line past the buffer cap aborts the scan; the audit must report
	// the error rather than declare the unread remainder valid.
	var b strings.Builder
	b.WriteString("% ")
	b.WriteString(strings.Repeat("x", 2*1024*1024))
	b.WriteString("\nmystery(a, b).\n")

	ok, _, err := Reader(strings.NewReader(b.String()))
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong, got %v", err)
	}
	if ok {
		t.Error("a failed scan must not report the file as valid")
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.pl")
	if err := os.WriteFile(path, []byte(":- dynamic concept/3.\nconcept(a, 1, \"x\").\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ok, diags, err := File(path)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if !ok || len(diags) != 0 {
		t.Errorf("expected clean file, got diags %v", diags)
	}
}

func TestFile_Missing(t *testing.T) {
	if _, _, err := File(filepath.Join(t.TempDir(), "absent.pl")); err == nil {
		t.Error("expected error for missing file")
	}
}
