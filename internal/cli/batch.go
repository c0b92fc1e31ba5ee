package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mlevchuk/veracity/internal/model"
	"github.com/mlevchuk/veracity/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchOut     string
	batchSize    int
	batchSingle  bool
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many claims from a file",
	Long: `Batch verifies a list of claims:
- Read claims from a JSON array of claim records, or one claim per line
- Group claims into chunks sharing one LLM round-trip each
- Audit and adjudicate every claim individually
- Write one verdict record per input claim, in input order

With --single each claim gets its own full verification pass instead,
run concurrently across workers.

Example:
  veracity batch claims.json
  veracity batch claims.txt --batch-size 10 --output verdicts.json
  veracity batch claims.json --single --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOut, "output", "verdicts.json", "output JSON path")
	batchCmd.Flags().IntVar(&batchSize, "batch-size", 0, "claims per LLM round-trip (0 uses the configured default)")
	batchCmd.Flags().BoolVar(&batchSingle, "single", false, "verify each claim individually instead of in shared batches")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "workers for --single mode (0 uses the configured default)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for batch processing")
	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	claims, err := readClaims(file)
	if err != nil {
		return err
	}

	e, err := newEngine(true)
	if err != nil {
		return err
	}
	if batchSize > 0 {
		e.cfg.Batch.Size = batchSize
	}
	if concurrency > 0 {
		e.cfg.Concurrency.Workers = concurrency
	}

	mode := "batched"
	if batchSingle {
		mode = "single"
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Veracity Batch Adjudication\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Claims:       %d\n", len(claims))
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", mode)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", e.cfg.LLM.Provider, e.cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	var results []*model.VerificationResult
	if batchSingle {
		fmt.Fprintf(os.Stderr, "⚙️  Verifying claims with %d workers...\n", e.cfg.Concurrency.Workers)
		runner := worker.NewClaimRunner(e.verifier(), e.cfg.Concurrency.Workers)
		results = runner.Run(ctx, claims)
	} else {
		fmt.Fprintf(os.Stderr, "⚙️  Adjudicating in chunks of %d...\n", e.cfg.Batch.Size)
		results = e.batch().Verify(ctx, claims)
	}

	counts := map[model.Verdict]int{}
	for _, r := range results {
		counts[r.Verdict]++
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d claims\n", len(results))
	for _, v := range []model.Verdict{model.VerdictTrue, model.VerdictFalse, model.VerdictMixed, model.VerdictUncertain, model.VerdictNoContent, model.VerdictError} {
		if counts[v] > 0 {
			fmt.Fprintf(os.Stderr, "  %-10s  %d\n", string(v)+":", counts[v])
		}
	}
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", batchOut)
	fmt.Fprintf(os.Stderr, "\n")

	return writeJSON(batchOut, results)
}

// readClaims loads claims from a JSON array of claim records, falling
// back to one claim per line for plain-text files.
func readClaims(path string) ([]model.ClaimInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read claims file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var claims []model.ClaimInput
		if err := json.Unmarshal(data, &claims); err != nil {
			return nil, fmt.Errorf("failed to parse claims file: %w", err)
		}
		return claims, nil
	}

	var claims []model.ClaimInput
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, model.ClaimInput{TextInput: line})
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("no claims found in %s", path)
	}
	return claims, nil
}
