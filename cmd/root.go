package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/version"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitRuntime     = 1
	ExitConfig      = 2
	ExitOCRDown     = 3
	ExitInterrupted = 130
)

var rootCmd = &cobra.Command{
	Use:   "novelclick",
	Short: "Click through a text-novel game by reading its window with OCR",
	Long: `novelclick captures a game window, sends the image to an OCR service and
clicks the configured labels ("steps") in order as they appear on screen.`,
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitRuntime
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("base-dir", "", "Directory for logs/ and capture/ (default: current directory)")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
