package cmd

import (
	"fmt"

	"github.com/mj1618/novelclick/internal/output"
	"github.com/mj1618/novelclick/internal/platform"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at screen coordinates",
	Long:  "Move the cursor to absolute screen coordinates and click. Useful for checking input works before a run.",
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().Int("x", 0, "Screen X coordinate")
	clickCmd.Flags().Int("y", 0, "Screen Y coordinate")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
}

func runClick(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("x") || !cmd.Flags().Changed("y") {
		return fmt.Errorf("--x and --y are required")
	}
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	buttonStr, _ := cmd.Flags().GetString("button")

	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if err := provider.Windows.ClickAt(x, y, button); err != nil {
		return err
	}
	return output.Print(output.ClickResult{X: x, Y: y, Button: button.String()})
}
