/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"github.com/krobus00/dashboard-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard HTTP API",
	Long: `Serves /api/market and /api/news as JSON, plus a websocket stream on
/api/stream. Quotes are fetched on every request, news is cached for the
configured TTL.`,
	Run: bootstrap.StartDashboardServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
