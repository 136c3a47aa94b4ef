package cmd

import (
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Bring the game window to the foreground",
	Long:  "Find the first visible window whose title contains --title (or the config title), raise it and print its bounds.",
	RunE:  runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().String("title", "", "Partial window title (default: config title)")
}

func runFocus(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	win, err := resolveWindow(provider.Windows, s.Title)
	if err != nil {
		return err
	}
	return output.Print(output.NewWindowResult(win))
}
