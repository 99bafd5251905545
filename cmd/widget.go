/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/dashboard-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

// widgetCmd represents the widget command
var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Inspect or change the dashboard widget order",
}

var widgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current widget order",
	Args:  cobra.NoArgs,
	Run:   bootstrap.ListWidgets,
}

var widgetMoveCmd = &cobra.Command{
	Use:   "move <moved-id> <target-id>",
	Short: "Move a widget into the slot of another widget",
	Args:  cobra.ExactArgs(2),
	Run:   bootstrap.MoveWidget,
}

var widgetResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default widget order",
	Args:  cobra.NoArgs,
	Run:   bootstrap.ResetWidgets,
}

func init() {
	rootCmd.AddCommand(widgetCmd)
	widgetCmd.AddCommand(widgetListCmd, widgetMoveCmd, widgetResetCmd)
}
