/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/dashboard-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

// clientCmd represents the client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Run the terminal dashboard",
	Long: `Polls the dashboard API for quotes every 30 seconds and news every
5 minutes and redraws the widget cards in the persisted order.`,
	Run: bootstrap.StartDashboardClient,
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.Flags().Bool("once", false, "render a single frame and exit")
}
