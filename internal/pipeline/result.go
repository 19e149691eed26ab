package pipeline

// PageState labels where a page is in its lifecycle. Skipped, accepted,
// rejected and errored are terminal.
type PageState string

const (
	StateFetched   PageState = "fetched"   // page text extracted
	StateSkipped   PageState = "skipped"   // text absent or below the length threshold
	StateGenerated PageState = "generated" // completion received, not yet validated
	StateAccepted  PageState = "accepted"  // payload valid, appended to the knowledge base
	StateRejected  PageState = "rejected"  // payload failed validation, raw artifact saved
	StateErrored   PageState = "errored"   // generation retries exhausted
)

// PageResult records the terminal outcome of one page.
type PageResult struct {
	Page   int
	State  PageState
	Tokens int
	Err    error
}

// Summary aggregates page outcomes for end-of-run reporting.
type Summary struct {
	Accepted int
	Rejected int
	Skipped  int
	Errored  int
	Tokens   int
}

// Summarize tallies a slice of page results.
func Summarize(results []PageResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.State {
		case StateAccepted:
			s.Accepted++
		case StateRejected:
			s.Rejected++
		case StateSkipped:
			s.Skipped++
		case StateErrored:
			s.Errored++
		}
		s.Tokens += r.Tokens
	}
	return s
}
