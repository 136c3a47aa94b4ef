package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/novelclick/internal/automation"
	"github.com/mj1618/novelclick/internal/capture"
	"github.com/mj1618/novelclick/internal/logging"
	"github.com/mj1618/novelclick/internal/ocr"
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the click loop until every step has been clicked",
	Long: `Load the config, check the OCR service, then repeatedly capture the game
window, recognize its text and click the next step label when it appears.
The loop sleeps for the configured interval after every iteration.

Exit codes: 0 all steps clicked, 1 runtime failure, 2 bad config,
3 OCR service unavailable, 130 interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-console", false, "Only write to the log file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	dir, err := baseDir(cmd)
	if err != nil {
		return err
	}
	var logOpts []logging.Option
	if quiet, _ := cmd.Flags().GetBool("no-console"); quiet {
		logOpts = append(logOpts, logging.WithConsole(nil))
	}
	log, err := logging.Setup(dir, time.Now(), logOpts...)
	if err != nil {
		return err
	}
	defer log.Close()

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		log.Errorf("config load failed: %v", err)
		return &ExitError{Code: ExitConfig, Err: err}
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	client := ocr.NewClient(cfg.OCREndpoint)
	if !client.Health(cmd.Context()) {
		err := fmt.Errorf("OCR service at %s is not healthy", client.Endpoint())
		log.Error(err)
		return &ExitError{Code: ExitOCRDown, Err: err}
	}
	log.Infof("OCR service healthy: %s", client.Endpoint())

	provider, err := platform.NewProvider()
	if err != nil {
		log.Error(err)
		return &ExitError{Code: ExitRuntime, Err: err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := automation.NewRunner(cfg, provider.Windows,
		capture.New(provider.Grabber, dir, cfg.CaptureKeepHeight), client, log.Logger)
	runErr := runner.Run(ctx)

	stats := runner.Stats()
	summary := output.RunResult{
		Completed:   runErr == nil,
		Iterations:  stats.Iterations,
		Clicks:      stats.Clicks,
		OCRFailures: stats.OCRFailures,
		Remaining:   runner.Remaining(),
		Log:         log.Path,
	}
	if err := output.Print(summary); err != nil {
		return err
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, context.Canceled):
		log.Warn("interrupted")
		return &ExitError{Code: ExitInterrupted, Err: runErr}
	default:
		log.Errorf("run failed: %v", runErr)
		return &ExitError{Code: ExitRuntime, Err: runErr}
	}
}

