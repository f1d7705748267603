package main

import (
	"os"

	"github.com/spf13/cobra"
	"gridblitz.dev/platform/cmd"
	"gridblitz.dev/platform/internal/echo"
)

// RootCmd is the root command for the GridBlitz CLI
var RootCmd = &cobra.Command{
	Use:   "gridblitz",
	Short: "GridBlitz simulation and server toolkit",
	Long: echo.HeaderStyle().Render("GridBlitz") + "\n\n" +
		"Operator toolkit for the always-on NFL simulation platform:\n" +
		"league seeding, database migrations, cache inspection, and the API server.",
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Path to config file (defaults to conf.toml)")
	RootCmd.AddCommand(cmd.DbCmd())
	RootCmd.AddCommand(cmd.SeedCmd())
	RootCmd.AddCommand(cmd.CacheCmd())
	RootCmd.AddCommand(cmd.ServerCmd())
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
