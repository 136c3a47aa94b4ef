package cmd

import (
	"fmt"

	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the game window and optionally recognize its text",
	Long: `Capture the window whose title contains --title (or the config title) into
capture/<timestamp>.png, exactly as one loop iteration would.

With --ocr the capture is sent to the OCR service and the recognized
candidates are printed. --annotate also writes capture/<timestamp>-annotated.png
with every candidate box drawn and numbered.`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().String("title", "", "Partial window title (default: config title)")
	captureCmd.Flags().String("region", "", "Capture a screen region x,y,w,h instead of a window")
	captureCmd.Flags().Int("keep-height", 0, "Keep only the top N pixel rows (0 = full height)")
	captureCmd.Flags().Bool("ocr", false, "Recognize text in the capture")
	captureCmd.Flags().Bool("annotate", false, "Write an annotated copy with candidate boxes (implies --ocr)")
	captureCmd.Flags().String("endpoint", "", "OCR service base URL (default: config ocr_api_endpoint)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	region, _ := cmd.Flags().GetString("region")
	withOCR, _ := cmd.Flags().GetBool("ocr")
	annotate, _ := cmd.Flags().GetBool("annotate")
	if annotate {
		withOCR = true
	}

	var client *ocr.Client
	if withOCR {
		if s.Endpoint == "" {
			return fmt.Errorf("--ocr needs --endpoint or a --config with ocr_api_endpoint")
		}
		client = ocr.NewClient(s.Endpoint)
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	var sc *scan
	if region != "" {
		rect, err := platform.ParseRegion(region)
		if err != nil {
			return err
		}
		win := model.WindowInfo{Left: rect.Min.X, Top: rect.Min.Y, Right: rect.Max.X, Bottom: rect.Max.Y}
		sc, err = scanRect(cmd.Context(), provider, client, s, win)
		if err != nil {
			return err
		}
	} else {
		sc, err = scanWindow(cmd.Context(), provider, client, s)
		if err != nil {
			return err
		}
	}

	if annotate {
		if err := sc.writeAnnotated(-1); err != nil {
			return err
		}
	}
	return output.Print(sc.captureResult())
}
