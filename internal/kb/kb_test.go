package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStore_InitWritesPreambleOnce(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := store.Init("game-theory-101.pdf"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	data, err := os.ReadFile(store.KnowledgePath())
	if err != nil {
		t.Fatalf("read knowledge base: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"%% Extracted from game-theory-101.pdf",
		":- dynamic concept/3.",
		":- dynamic relates/3.",
		":- dynamic example/3.",
		":- dynamic formula/3.",
		"valid_relation_type(requires).",
		"valid_relation_type(contains).",
		"%% === Extracted Facts ===",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("preamble missing %q", want)
		}
	}

	// Appending then re-initializing must not rewrite the preamble
	if err := store.Append(1, "concept(a, 1, \"x\").\n"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Init("game-theory-101.pdf"); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	data, _ = os.ReadFile(store.KnowledgePath())
	if got := strings.Count(string(data), ":- dynamic concept/3."); got != 1 {
		t.Errorf("preamble written %d times, want 1", got)
	}
	if !strings.Contains(string(data), `concept(a, 1, "x").`) {
		t.Error("append lost after re-init")
	}
}

func TestStore_AppendAddsPageMarker(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := store.Init("doc.pdf"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := store.Append(3, `concept(nash_equilibrium, 3, "def").`); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, _ := os.ReadFile(store.KnowledgePath())
	content := string(data)

	if !strings.Contains(content, "% === Page 3 ===\n") {
		t.Error("missing page marker")
	}
	if !strings.Contains(content, "concept(nash_equilibrium, 3, \"def\").\n") {
		t.Error("missing fact line (or missing trailing newline)")
	}

	// Exactly one marker and one fact line were added
	if got := strings.Count(content, "% === Page"); got != 1 {
		t.Errorf("found %d page markers, want 1", got)
	}
	if got := strings.Count(content, "concept(nash_equilibrium"); got != 1 {
		t.Errorf("found %d fact lines, want 1", got)
	}
}

func TestStore_SaveRawZeroPadsPage(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := store.SaveRaw(7, "Sure! Here are the facts:"); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}

	data, err := os.ReadFile(store.RawPath(7))
	if err != nil {
		t.Fatalf("raw artifact not written: %v", err)
	}
	if string(data) != "Sure! Here are the facts:" {
		t.Errorf("raw artifact content = %q", data)
	}
	if filepath.Base(store.RawPath(7)) != "page_007.txt" {
		t.Errorf("raw path not zero-padded: %s", store.RawPath(7))
	}
}

func TestState_LoadDefaultsWhenAbsent(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "state.json"))

	if page, ok := state.Load(); ok || page != 0 {
		t.Errorf("Load on missing file = (%d, %v), want (0, false)", page, ok)
	}
}

func TestState_SaveLoadRoundTrip(t *testing.T) {
	state := NewState(filepath.Join(t.TempDir(), "state.json"))

	if err := state.Save(42); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if page, ok := state.Load(); !ok || page != 42 {
		t.Errorf("Load = (%d, %v), want (42, true)", page, ok)
	}

	// Overwrite, including the rollback-to-zero case
	if err := state.Save(0); err != nil {
		t.Fatalf("Save(0): %v", err)
	}
	if page, ok := state.Load(); !ok || page != 0 {
		t.Errorf("Load after rollback = (%d, %v), want (0, true)", page, ok)
	}
}

func TestState_LoadIgnoresGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	state := NewState(path)
	if page, ok := state.Load(); ok || page != 0 {
		t.Errorf("Load on garbage = (%d, %v), want (0, false)", page, ok)
	}
}
