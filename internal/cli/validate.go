package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvolkov/gleaner/internal/validate"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Audit a knowledge-base file against the fact syntax",
	Long: `Validate checks every fact line of an assembled knowledge base and
prints a line-numbered diagnostic for each violation. Comments, blank
lines, directives, and the schema's valid_relation_type facts are
skipped.

Example:
  gleaner validate output/knowledge.pl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		ok, diags, err := validate.File(path)
		if err != nil {
			return err
		}

		if ok {
			fmt.Printf("✓ %s: all facts valid\n", path)
			return nil
		}

		for _, d := range diags {
			fmt.Println(d)
		}
		return fmt.Errorf("%d invalid fact(s) in %s", len(diags), path)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
