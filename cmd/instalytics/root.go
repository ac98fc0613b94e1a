package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "instalytics",
	Short: "Instagram profile analytics from the command line",
	Long: `Instalytics analyzes public Instagram profiles and produces engagement
reports: engagement rates, viral posts, content breakdown, posting
frequency, trends and an overall influence score.

Results are saved as JSON reports with CSV timelines, browsable through
the built-in dashboard ('instalytics serve').

Credentials are optional for public profiles but recommended:
  - Stored credentials (use 'instalytics auth login' to store)
  - Environment variables (INSTALYTICS_SESSION_ID and INSTALYTICS_CSRF_TOKEN)
  - Configuration file`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./instalytics.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`Instalytics {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags builds the flag overrides shared by all commands.
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	return flags
}
