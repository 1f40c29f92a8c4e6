package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the release version stamped at build time.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ceciliad",
	Short: "Cecilia OS is a multi-tenant web-based operating system",
	Long: `The Cecilia OS backend: session-based authentication, policy-gated
terminal command execution, and per-user home directory file access
behind a browser desktop shell.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
}
