package validate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader audits an assembled knowledge base line by line, returning every
// diagnostic instead of stopping at the first. Directive lines (":- ...")
// are skipped along with blanks and comments, since the preamble declares
// dynamic predicates that are not facts. A scan failure is an error, not a
// clean audit: a file that could not be read must never report as valid.
func Reader(r io.Reader) (bool, []string, error) {
	var diags []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, ":-") {
			continue
		}

		// The preamble declares relation types as facts; they are outside
		// the extraction allow-list but still have to be well-formed.
		if strings.HasPrefix(line, "valid_relation_type(") {
			if _, ok, msg := checkShape(line); !ok {
				diags = append(diags, fmt.Sprintf("Line %d: %s", lineNum, msg))
			}
			continue
		}

		if ok, msg := CheckLine(line); !ok {
			diags = append(diags, fmt.Sprintf("Line %d: %s", lineNum, msg))
		}
	}

	if err := scanner.Err(); err != nil {
		return false, diags, fmt.Errorf("scan knowledge base: %w", err)
	}

	return len(diags) == 0, diags, nil
}

// File audits a knowledge-base file on disk.
func File(path string) (bool, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, nil, fmt.Errorf("open knowledge file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Reader(f)
}
