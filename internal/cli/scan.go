package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mlevchuk/veracity/internal/extract"
	"github.com/mlevchuk/veracity/internal/model"
	"github.com/spf13/cobra"
)

var (
	scanVerify  bool
	scanOut     string
	scanLimit   int
	scanTimeout time.Duration
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url-or-file>",
	Short: "Extract checkable claims from a page",
	Long: `Scan pulls check-worthy sentences out of an article or post:
- Fetch the page (or read a local HTML file)
- Keep sentences carrying viral-assertion trigger phrases
- With --verify, batch-adjudicate the extracted claims too

Example:
  veracity scan https://example.com/article
  veracity scan ./saved-post.html --verify --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanVerify, "verify", false, "adjudicate the extracted claims")
	scanCmd.Flags().StringVar(&scanOut, "json", "", "output JSON path (default: stdout)")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "max claims to keep (0 = all)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Minute, "overall scan timeout")
	addLLMFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	htmlContent, err := loadPage(ctx, target)
	if err != nil {
		return err
	}

	claims, err := extract.NewClaimExtractor().Extract(htmlContent)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", target, err)
	}
	if scanLimit > 0 && len(claims) > scanLimit {
		claims = claims[:scanLimit]
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims from %s\n", len(claims), target)
	}

	if !scanVerify {
		return writeJSON(scanOut, claims)
	}

	e, err := newEngine(true)
	if err != nil {
		return err
	}

	inputs := make([]model.ClaimInput, len(claims))
	for i, c := range claims {
		inputs[i] = model.ClaimInput{TextInput: c.Text, ClaimContext: target}
	}

	results := e.batch().Verify(ctx, inputs)
	return writeJSON(scanOut, results)
}

// loadPage fetches a URL (honoring robots.txt) or reads a local HTML file.
func loadPage(ctx context.Context, target string) (string, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		data, err := os.ReadFile(target)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", target, err)
		}
		return string(data), nil
	}

	fetcher := extract.NewPageFetcher(30*time.Second, "Veracity/0.1", 2_000_000)
	return fetcher.Fetch(ctx, target)
}
