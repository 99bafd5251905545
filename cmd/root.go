/*
Copyright © 2026 Michael Putera Wardana <michaelputeraw@gmail.com>
*/
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/krobus00/dashboard-service/internal/config"
	"github.com/krobus00/dashboard-service/internal/infrastructure"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dashboard-service",
	Short: "Personal dashboard API and terminal client",
	Long: `dashboard-service aggregates market quotes and AI news behind a small
HTTP API and renders them as a reorderable widget dashboard in the terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		return infrastructure.ConfigureLogger(config.Env.Env, config.Env.Log)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ./config.yml)")
}
