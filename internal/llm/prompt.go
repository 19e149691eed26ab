package llm

import "fmt"

// extractionPrompt instructs the model to emit only lines the fact
// validator will accept. The doubled-quote and snake_case rules exist
// because the validator enforces the quoting and the Prolog convention
// expects lowercase atoms.
const extractionPrompt = `You are extracting key concepts from a document into Prolog facts.

Page %[1]d text:
"""
%[2]s
"""

Extract concepts, relationships, examples, and formulas from this page.
Output ONLY valid Prolog facts using these predicates:

concept(name, %[1]d, "definition").
relates(concept1, concept2, relation_type).
example(concept, %[1]d, "description").
formula(concept, %[1]d, "expression").

Rules:
- Use snake_case for concept names (nash_equilibrium, not "Nash Equilibrium")
- relation_type must be one of: requires, illustrates, contrasts, extends, contains
- If the page has no extractable concepts, output: %% No concepts on this page
- For strings containing double quotes, double them: "He said ""hello"""
- Each fact on its own line
- For formulas: preserve mathematical structure even if symbols appear garbled
- Mark uncertain or complex formulas with: %% FORMULA_CHECK_NEEDED
- Use ASCII approximations for symbols: >= for greater-equal, sum() for sigma, E[] for expected value

Output facts only, no explanation.`

// BuildPrompt constructs the extraction prompt for one page.
func BuildPrompt(pageNum int, pageText string) string {
	return fmt.Sprintf(extractionPrompt, pageNum, pageText)
}
