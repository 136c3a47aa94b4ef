package cmd

import (
	"fmt"

	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Check whether a step label is on screen",
	Long: `Capture the game window, run OCR and look for --text using the same
normalization and substring rule as the run loop. Prints the matched box and
the screen point that would be clicked; with --click it is clicked.`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("title", "", "Partial window title (default: config title)")
	matchCmd.Flags().String("text", "", "Step label to look for (required)")
	matchCmd.Flags().Int("keep-height", 0, "Keep only the top N pixel rows (0 = full height)")
	matchCmd.Flags().String("endpoint", "", "OCR service base URL (default: config ocr_api_endpoint)")
	matchCmd.Flags().Bool("click", false, "Click the match")
	matchCmd.Flags().Bool("annotate", false, "Write an annotated copy with the match highlighted")
}

func runMatch(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	if text == "" {
		return fmt.Errorf("--text is required")
	}
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if s.Endpoint == "" {
		return fmt.Errorf("specify --endpoint or a --config with ocr_api_endpoint")
	}
	doClick, _ := cmd.Flags().GetBool("click")
	annotate, _ := cmd.Flags().GetBool("annotate")

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	sc, err := scanWindow(cmd.Context(), provider, ocr.NewClient(s.Endpoint), s)
	if err != nil {
		return err
	}

	res, idx := matchScan(sc, text)
	if annotate {
		if err := sc.writeAnnotated(idx); err != nil {
			return err
		}
	}
	if doClick && res.Matched {
		if err := provider.Windows.ClickAt(res.Point[0], res.Point[1], platform.MouseLeft); err != nil {
			return err
		}
		res.Clicked = true
	}
	return output.Print(res)
}
