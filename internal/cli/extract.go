package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvolkov/gleaner/internal/cache"
	"github.com/pvolkov/gleaner/internal/kb"
	"github.com/pvolkov/gleaner/internal/llm"
	"github.com/pvolkov/gleaner/internal/model"
	"github.com/pvolkov/gleaner/internal/pdf"
	"github.com/pvolkov/gleaner/internal/pipeline"
)

var (
	startPage   int
	maxPages    int
	outDir      string
	stateFile   string
	minText     int
	noCache     bool
	cacheDir    string
	llmProvider string
	llmModel    string
	llmTimeout  time.Duration
	maxTokens   int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract Prolog facts from a PDF into the knowledge base",
	Long: `Extract processes a PDF page by page:
- Pages with too little text are skipped
- Each remaining page is sent to the configured LLM provider
- Responses that pass the fact-syntax validator are appended to the
  knowledge base under a page marker; everything else is saved to a raw
  debug artifact
- Progress is checkpointed after every page, so an interrupted run
  resumes at the next unprocessed page

Example:
  gleaner extract textbook.pdf
  gleaner extract textbook.pdf --start-page 40 --max-pages 10
  gleaner extract textbook.pdf --llm-provider anthropic --llm-model claude-3-5-sonnet-20241022`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Page range flags
	extractCmd.Flags().IntVar(&startPage, "start-page", 0, "page to start from (overrides the saved checkpoint)")
	extractCmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum pages to process (0 = all)")

	// Output flags
	extractCmd.Flags().StringVar(&outDir, "out", "output", "output directory for knowledge.pl and raw/")
	extractCmd.Flags().StringVar(&stateFile, "state", "state.json", "progress checkpoint path")

	// Policy flags
	extractCmd.Flags().IntVar(&minText, "min-text", 50, "minimum page text length before extraction")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the completion cache")
	extractCmd.Flags().StringVar(&cacheDir, "cache-dir", ".gleaner-cache", "completion cache directory")

	// LLM flags
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
	extractCmd.Flags().DurationVar(&llmTimeout, "timeout", time.Minute, "timeout per generation request")
	extractCmd.Flags().IntVar(&maxTokens, "max-tokens", 1024, "max tokens per generated payload")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("PDF file not found: %s", pdfPath)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.PDF.MinTextLength = minText
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.Timeout = int(llmTimeout.Seconds())
	cfg.LLM.MaxTokens = maxTokens
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Output.Dir = outDir
	cfg.Output.StateFile = stateFile
	cfg.Output.Verbose = verbose

	// API keys come from the environment, never from flags or files
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}

	doc, err := pdf.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", pdfPath, err)
	}
	defer func() { _ = doc.Close() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Source: %s (%d pages)\n", pdfPath, doc.PageCount())
		fmt.Fprintf(os.Stderr, "Provider: %s\n", provider.Name())
		fmt.Fprintf(os.Stderr, "Output: %s\n\n", cfg.Output.Dir)
	}

	// Explicit startup: create directories, write the preamble once
	store := kb.NewStore(cfg.Output.Dir)
	if err := store.Setup(); err != nil {
		return err
	}
	if err := store.Init(filepath.Base(pdfPath)); err != nil {
		return err
	}
	state := kb.NewState(cfg.Output.StateFile)

	var completions cache.Cache
	if cfg.Cache.Enabled {
		completions = cache.NewLayered(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	ext := pipeline.New(doc, provider, store, state, completions, cfg)

	results, runErr := ext.Run(context.Background(), startPage, maxPages)

	s := pipeline.Summarize(results)
	fmt.Printf("\nPages: %d accepted, %d rejected, %d skipped, %d errored\n",
		s.Accepted, s.Rejected, s.Skipped, s.Errored)
	if s.Tokens > 0 {
		fmt.Printf("Tokens used: %d\n", s.Tokens)
	}

	return runErr
}
