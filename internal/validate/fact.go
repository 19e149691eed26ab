// Package validate checks extracted Prolog facts against the restricted
// syntax the knowledge base accepts. It is purely syntactic: balanced
// parentheses, fact shape, predicate allow-list, trailing period. Nothing
// here executes or type-checks a fact, and malformed input is reported as
// a result, never as a panic or error.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pvolkov/gleaner/internal/model"
)

// factPattern matches a Prolog fact: predicate(arg1, arg2, ...).
var factPattern = regexp.MustCompile(`(?i)^([a-z_][a-z0-9_]*)\s*\((.*)\)\s*\.\s*$`)

// String sub-parser failures.
var (
	ErrMissingOpenQuote   = errors.New("string must start with quote")
	ErrUnterminatedString = errors.New("unterminated string")
)

// BalancedParens reports whether parentheses are balanced, counting only
// parentheses outside quoted strings. The scan tracks a backslash-escape
// flag; a doubled quote toggles the in-string flag twice, which nets out
// to staying inside the string.
func BalancedParens(text string) bool {
	count := 0
	inString := false
	escapeNext := false

	for _, ch := range text {
		if escapeNext {
			escapeNext = false
			continue
		}
		switch {
		case ch == '\\':
			escapeNext = true
		case ch == '"':
			inString = !inString
		case inString:
			// parens inside strings never count
		case ch == '(':
			count++
		case ch == ')':
			count--
			if count < 0 {
				return false
			}
		}
	}

	return count == 0
}

// QuotedString parses a Prolog double-quoted string at the start of s,
// returning the unescaped content and the number of bytes consumed
// (including both quotes). A doubled quote is an embedded quote; a
// backslash escapes the following character.
func QuotedString(s string) (string, int, error) {
	if !strings.HasPrefix(s, `"`) {
		return "", 0, ErrMissingOpenQuote
	}

	var b strings.Builder
	i := 1
	for i < len(s) {
		switch {
		case s[i] == '"':
			if i+1 < len(s) && s[i+1] == '"' {
				// Doubled quote (escaped)
				b.WriteByte('"')
				i += 2
			} else {
				// End of string
				return b.String(), i + 1, nil
			}
		case s[i] == '\\' && i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		default:
			b.WriteByte(s[i])
			i++
		}
	}

	return "", 0, ErrUnterminatedString
}

// checkShape validates the fact shape (balanced parens, pattern match,
// trailing period) without consulting the predicate allow-list, returning
// the predicate name on success.
func checkShape(line string) (string, bool, string) {
	if !BalancedParens(line) {
		return "", false, "unbalanced parentheses"
	}

	m := factPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false, fmt.Sprintf("invalid fact syntax: %s", truncate(line, 50))
	}

	// Redundant with the shape match but kept as an independent check.
	if !strings.HasSuffix(strings.TrimRight(line, " \t"), ".") {
		return "", false, "fact must end with period"
	}

	return m[1], true, ""
}

// CheckLine validates a single fact line. Blank lines and % comments are
// always acceptable. The returned message is empty when the line is valid.
func CheckLine(line string) (bool, string) {
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "%") {
		return true, ""
	}

	pred, ok, msg := checkShape(line)
	if !ok {
		return false, msg
	}

	if !model.KnownPredicates[pred] {
		return false, fmt.Sprintf("unknown predicate: %s", pred)
	}

	return true, ""
}

// Payload reports whether every non-blank, non-comment line of an
// extraction payload is a valid fact. A payload of only comments, such as
// "% No concepts on this page", is valid.
func Payload(text string) bool {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if ok, _ := CheckLine(line); !ok {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
