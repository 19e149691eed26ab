// Package pipeline drives page-by-page extraction: read page text, ask
// the generation service for Prolog facts, validate them, and persist
// either the facts or a debug artifact plus a resumable checkpoint.
// Processing is strictly sequential; one page completes before the next
// begins.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/pvolkov/gleaner/internal/cache"
	"github.com/pvolkov/gleaner/internal/kb"
	"github.com/pvolkov/gleaner/internal/llm"
	"github.com/pvolkov/gleaner/internal/model"
	"github.com/pvolkov/gleaner/internal/validate"
)

// sleepFunc is the wait used for rate-limit backoff (injectable for tests)
var sleepFunc = time.Sleep

// Source is a paginated text source, normally a pdf.Document. Text may
// return empty text for unreadable pages.
type Source interface {
	PageCount() int
	Text(pageNum int) (string, error)
}

// Extractor runs the extraction loop against explicit collaborators.
// It is the sole writer of the store and state it is given.
type Extractor struct {
	source      Source
	provider    llm.Provider
	store       *kb.Store
	state       *kb.State
	completions cache.Cache // nil disables completion caching
	limiter     *rate.Limiter
	cfg         *model.Config
	logw        io.Writer
}

// New creates an extraction pipeline. Directory setup (store.Setup,
// store.Init) is the caller's explicit startup step, not a side effect
// of construction.
func New(source Source, provider llm.Provider, store *kb.Store, state *kb.State, completions cache.Cache, cfg *model.Config) *Extractor {
	pps := cfg.Extract.PagesPerSecond
	if pps <= 0 {
		pps = 2
	}

	return &Extractor{
		source:      source,
		provider:    provider,
		store:       store,
		state:       state,
		completions: completions,
		limiter:     rate.NewLimiter(rate.Limit(pps), 1),
		cfg:         cfg,
		logw:        os.Stderr,
	}
}

// Run processes pages from startPage through the end of the source (or
// maxPages pages, when positive). A startPage of 0 resumes after the
// saved checkpoint. The returned error is non-nil only when the loop
// aborted: exhausted generation retries or a persistence failure. Pages
// already processed are always returned alongside the error.
func (e *Extractor) Run(ctx context.Context, startPage, maxPages int) ([]PageResult, error) {
	if startPage <= 0 {
		startPage = 1
		if last, ok := e.state.Load(); ok {
			startPage = last + 1
			if last >= 1 {
				fmt.Fprintf(e.logw, "Resuming from page %d\n", startPage)
			}
		}
	}

	total := e.source.PageCount()
	endPage := total
	if maxPages > 0 && startPage+maxPages-1 < total {
		endPage = startPage + maxPages - 1
	}

	if startPage > endPage {
		fmt.Fprintf(e.logw, "Nothing to do: start page %d is past the last page %d\n", startPage, endPage)
		return nil, nil
	}

	fmt.Fprintf(e.logw, "Processing pages %d-%d of %d\n", startPage, endPage, total)

	var results []PageResult
	for page := startPage; page <= endPage; page++ {
		res, err := e.processPage(ctx, page, total)
		results = append(results, res)
		if err != nil {
			return results, err
		}

		// Base rate limiting between pages, independent of per-call backoff
		if err := e.limiter.Wait(ctx); err != nil {
			return results, err
		}
	}

	fmt.Fprintf(e.logw, "\nExtraction complete. Knowledge base saved to %s\n", e.store.KnowledgePath())
	return results, nil
}

// processPage takes one page to a terminal state. The returned error is
// reserved for conditions that must stop the whole loop.
func (e *Extractor) processPage(ctx context.Context, page, total int) (PageResult, error) {
	fmt.Fprintf(e.logw, "[%d/%d] Processing page %d...\n", page, total, page)

	text, err := e.source.Text(page)
	if err != nil {
		return PageResult{Page: page, State: StateErrored, Err: err}, err
	}

	if utf8.RuneCountInString(text) < e.minTextLength() {
		fmt.Fprintf(e.logw, "  [SKIP] Page %d: empty or too short\n", page)
		if err := e.state.Save(page); err != nil {
			return PageResult{Page: page, State: StateErrored, Err: err}, err
		}
		return PageResult{Page: page, State: StateSkipped}, nil
	}

	payload, tokens, err := e.generateWithRetry(ctx, page, text)
	if err != nil {
		return PageResult{Page: page, State: StateErrored, Err: err}, err
	}

	if validate.Payload(payload) {
		if err := e.store.Append(page, payload); err != nil {
			return PageResult{Page: page, State: StateErrored, Err: err}, err
		}
		if err := e.state.Save(page); err != nil {
			return PageResult{Page: page, State: StateErrored, Err: err}, err
		}
		fmt.Fprintf(e.logw, "  [OK] Extracted facts from page %d\n", page)
		return PageResult{Page: page, State: StateAccepted, Tokens: tokens}, nil
	}

	// Syntactic rejection does not block forward progress and is not
	// retried; the payload goes to a raw artifact for offline debugging.
	fmt.Fprintf(e.logw, "  [INVALID] Page %d: failed syntax validation\n", page)
	if err := e.store.SaveRaw(page, payload); err != nil {
		return PageResult{Page: page, State: StateErrored, Err: err}, err
	}
	if err := e.state.Save(page); err != nil {
		return PageResult{Page: page, State: StateErrored, Err: err}, err
	}
	return PageResult{Page: page, State: StateRejected, Tokens: tokens}, nil
}

// generateWithRetry requests one completion with the bounded retry
// policy: rate limits back off 2^attempt seconds and retry; any other
// service failure rolls the checkpoint back to the previous page (so a
// restart retries this page) and retries immediately, aborting on the
// final attempt. A rate limit on the final attempt aborts the same way.
func (e *Extractor) generateWithRetry(ctx context.Context, page int, text string) (string, int, error) {
	prompt := llm.BuildPrompt(page, text)

	key := cache.Key(e.cfg.LLM.Model, prompt)
	if e.completions != nil {
		if data, ok := e.completions.Get(key); ok {
			fmt.Fprintf(e.logw, "  [CACHE] Page %d: reusing completion\n", page)
			return string(data), 0, nil
		}
	}

	maxRetries := e.cfg.Extract.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := e.provider.Complete(ctx, llm.Request{
			Prompt:    prompt,
			Model:     e.cfg.LLM.Model,
			MaxTokens: e.cfg.LLM.MaxTokens,
		})
		if err == nil {
			if e.completions != nil {
				if cacheErr := e.completions.Set(key, []byte(resp.Text), 0); cacheErr != nil {
					fmt.Fprintf(e.logw, "  [WARN] Page %d: cache write failed: %v\n", page, cacheErr)
				}
			}
			return resp.Text, resp.TokensUsed, nil
		}
		lastErr = err

		if llm.IsRateLimited(err) && attempt < maxRetries {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			fmt.Fprintf(e.logw, "  [RATE LIMIT] Waiting %s before retry...\n", wait)
			sleepFunc(wait)
			continue
		}

		fmt.Fprintf(e.logw, "  [ERROR] Page %d: %v\n", page, err)

		// Roll back so the next run retries this page
		if saveErr := e.state.Save(page - 1); saveErr != nil {
			return "", 0, saveErr
		}

		if attempt == maxRetries {
			break
		}
	}

	return "", 0, lastErr
}

func (e *Extractor) minTextLength() int {
	if e.cfg.PDF.MinTextLength > 0 {
		return e.cfg.PDF.MinTextLength
	}
	return 50
}
