package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mlevchuk/veracity/internal/model"
	"github.com/spf13/cobra"
)

var (
	checkDate    string
	checkContext string
	checkOut     string
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single text claim against published coverage",
	Long: `Check gathers evidence for a text claim, asks the configured LLM for a
structured decomposition with per-fact citations, audits every citation
against the evidence it cites, and prints the resulting verdict record.

Example:
  veracity check "NASA confirmed the asteroid will pass safely"
  veracity check "Celebrity X endorsed product Y" --claim-date 2024-03-01 --json verdict.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkDate, "claim-date", "", "date the claim was made (ISO 8601)")
	checkCmd.Flags().StringVar(&checkContext, "context", "", "where or how the claim circulated")
	checkCmd.Flags().StringVar(&checkOut, "json", "", "output JSON path (default: stdout)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 3*time.Minute, "overall verification timeout")
	addLLMFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	e, err := newEngine(true)
	if err != nil {
		return err
	}

	claim := model.ClaimInput{
		TextInput:    args[0],
		ClaimContext: checkContext,
		ClaimDate:    checkDate,
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim.Text())
	}

	result := e.verifier().VerifyText(ctx, claim)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Verdict: %s (%s confidence)\n", result.Verdict, result.Confidence)
	}
	return writeJSON(checkOut, result)
}
