package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mlevchuk/veracity/internal/verify"
	"github.com/spf13/cobra"
)

var (
	imageURL     string
	imageContext string
	imageDate    string
	imageOut     string
	imageTimeout time.Duration
	gatherOnly   bool
)

// imageCmd represents the image command
var imageCmd = &cobra.Command{
	Use:   "image [path]",
	Short: "Verify an image's claimed context via reverse image search",
	Long: `Image runs a reverse image search for a local file or a remote URL and
adjudicates the claimed context against where the image has actually been
published. With --gather-only it prints the ranked evidence and skips the
adjudication.

Example:
  veracity image ./screenshot.png --context "Taken during the 2024 floods"
  veracity image --url https://example.com/photo.jpg --context "..." --gather-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().StringVar(&imageURL, "url", "", "image URL (alternative to a local path)")
	imageCmd.Flags().StringVar(&imageContext, "context", "", "the context the image claims to show")
	imageCmd.Flags().StringVar(&imageDate, "date", "", "date the claim was made (ISO 8601)")
	imageCmd.Flags().StringVar(&imageOut, "json", "", "output JSON path (default: stdout)")
	imageCmd.Flags().DurationVar(&imageTimeout, "timeout", 3*time.Minute, "overall verification timeout")
	imageCmd.Flags().BoolVar(&gatherOnly, "gather-only", false, "print ranked evidence without adjudicating")
	addLLMFlags(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	req := verify.ImageRequest{
		ImageURL:     imageURL,
		ClaimContext: imageContext,
		ClaimDate:    imageDate,
	}
	if len(args) == 1 {
		req.ImagePath = args[0]
	}
	if req.ImagePath == "" && req.ImageURL == "" {
		return fmt.Errorf("provide an image path or --url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
	defer cancel()

	e, err := newEngine(!gatherOnly)
	if err != nil {
		return err
	}
	v := e.verifier()

	if gatherOnly {
		evidence, err := v.GatherImageEvidence(ctx, req)
		if err != nil {
			return fmt.Errorf("evidence gathering failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Found %d evidence items\n", len(evidence))
		}
		return writeJSON(imageOut, evidence)
	}

	result := v.VerifyImage(ctx, req)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Verdict: %s (%s confidence)\n", result.Verdict, result.Confidence)
	}
	return writeJSON(imageOut, result)
}
