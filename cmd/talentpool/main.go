package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talentpool/cmd/talentpool/commands"
	"talentpool/internal/config"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "talentpool",
	Short: "talentpool - job board backend",
	Long: `talentpool - job board backend.

Available commands:
  serve        - Run the HTTP API and the scheduled publish sweeper
  sweep        - Publish due scheduled adverts once
  migrate      - Apply database migrations
  create-user  - Create an account and print its token

Configuration is read from the environment; .env files are loaded first
without overriding variables that are already set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFiles...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Environment files to load (default: .env)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SweepCmd)
	rootCmd.AddCommand(commands.MigrateCmd)
	rootCmd.AddCommand(commands.CreateUserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
