package cmd

import (
	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List top-level windows",
	Long:  "List visible top-level windows with their handle, title and bounds. Use this to pick the title for the config.",
	RunE:  runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().String("title", "", "Only windows whose title contains this text")
	windowsCmd.Flags().Bool("all", false, "Include hidden and untitled windows")
}

func runWindows(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	all, _ := cmd.Flags().GetBool("all")

	windows, err := provider.Windows.ListWindows(platform.ListOptions{Title: title, All: all})
	if err != nil {
		return err
	}
	return output.Print(output.WindowsResult{Windows: windows})
}
