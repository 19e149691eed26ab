// Package kb persists the extraction outputs: the append-only Prolog
// knowledge base, per-page raw-response debug artifacts, and the progress
// checkpoint that makes an interrupted run resumable.
package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const knowledgeFileName = "knowledge.pl"
const rawDirName = "raw"

// preamble declares the schema once, when the knowledge base is first
// created. The valid_relation_type facts document the relates/3
// vocabulary; the structural validator does not enforce them.
const preamble = `%%%% Knowledge Base
%%%% Extracted from %s

:- dynamic concept/3.
:- dynamic relates/3.
:- dynamic example/3.
:- dynamic formula/3.

%%%% Relation types (declared as facts for validation):
valid_relation_type(requires).    %% A requires B
valid_relation_type(illustrates). %% A exemplifies B
valid_relation_type(contrasts).   %% A opposes B
valid_relation_type(extends).     %% A generalizes B
valid_relation_type(contains).    %% A includes B

%%%% === Extracted Facts ===

`

// Store owns the output directory layout. It is the only writer of the
// knowledge base and raw artifacts; running two processes against the
// same directory is not supported.
type Store struct {
	dir           string
	knowledgePath string
	rawDir        string
}

// NewStore creates a store rooted at dir. No filesystem side effects
// happen until Setup is called.
func NewStore(dir string) *Store {
	return &Store{
		dir:           dir,
		knowledgePath: filepath.Join(dir, knowledgeFileName),
		rawDir:        filepath.Join(dir, rawDirName),
	}
}

// Setup creates the output directories. Invoked once at process start.
func (s *Store) Setup() error {
	if err := os.MkdirAll(s.rawDir, 0755); err != nil {
		return fmt.Errorf("create output directories: %w", err)
	}
	return nil
}

// Init writes the schema preamble if the knowledge base does not exist
// yet. sourceName labels where the facts came from (the PDF file name).
func (s *Store) Init(sourceName string) error {
	if _, err := os.Stat(s.knowledgePath); err == nil {
		return nil
	}
	content := fmt.Sprintf(preamble, sourceName)
	if err := os.WriteFile(s.knowledgePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("init knowledge base: %w", err)
	}
	return nil
}

// Append appends validated facts under a page marker comment. The marker
// is informational only: re-running the same page appends again, so the
// knowledge base has at-least-once semantics across crashes.
func (s *Store) Append(pageNum int, facts string) error {
	f, err := os.OpenFile(s.knowledgePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open knowledge base: %w", err)
	}
	defer func() { _ = f.Close() }()

	entry := fmt.Sprintf("\n%% === Page %d ===\n%s", pageNum, facts)
	if !strings.HasSuffix(entry, "\n") {
		entry += "\n"
	}

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("append to knowledge base: %w", err)
	}
	return nil
}

// SaveRaw persists a rejected payload for offline debugging, keyed by
// zero-padded page number.
func (s *Store) SaveRaw(pageNum int, payload string) error {
	path := filepath.Join(s.rawDir, fmt.Sprintf("page_%03d.txt", pageNum))
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		return fmt.Errorf("save raw response: %w", err)
	}
	return nil
}

// KnowledgePath returns the knowledge base file path.
func (s *Store) KnowledgePath() string { return s.knowledgePath }

// RawPath returns the raw-artifact path for a page.
func (s *Store) RawPath(pageNum int) string {
	return filepath.Join(s.rawDir, fmt.Sprintf("page_%03d.txt", pageNum))
}
