package cmd

import (
	"fmt"

	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/output"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the OCR service",
	Long:  "Call GET /health on the OCR service. Exits with status 3 when the service is not healthy.",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().String("endpoint", "", "OCR service base URL (default: config ocr_api_endpoint)")
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if s.Endpoint == "" {
		return fmt.Errorf("specify --endpoint or a --config with ocr_api_endpoint")
	}

	client := ocr.NewClient(s.Endpoint)
	ok := client.Health(cmd.Context())
	if err := output.Print(output.HealthResult{OK: ok, Endpoint: client.Endpoint()}); err != nil {
		return err
	}
	if !ok {
		cmd.SilenceUsage = true
		return &ExitError{Code: ExitOCRDown, Err: fmt.Errorf("OCR service at %s is not healthy", client.Endpoint())}
	}
	return nil
}
