package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// rootCmd runs the proxy when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "curse-update-proxy",
	Short: "Serves Forge update JSON for CurseForge mods",
	Long: `Aggregates a CurseForge mod's files into a Forge update document:
a changelog per Minecraft version and latest / recommended promotions.

Without a subcommand the HTTP proxy is started.`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCmd.Run(serveCmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding the optional .env file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
