package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"instalytics/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Instalytics configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (INSTALYTICS_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as 'instalytics.yaml' in the current directory
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources.

Sensitive values like credentials are masked.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

const exampleConfig = `# Instalytics Configuration File
#
# All options can also be set via environment variables prefixed with
# INSTALYTICS_, e.g. INSTALYTICS_SESSION_ID, INSTALYTICS_MAX_POSTS.

# Instagram credentials (optional for public profiles)
instagram:
  # Session ID from the sessionid browser cookie
  session_id: ""

  # CSRF token from the csrftoken browser cookie
  csrf_token: ""

  # User agent string (leave empty for the default)
  user_agent: ""

# Scrape run settings
scrape:
  # Number of recent posts to analyze (10-100)
  max_posts: 50

  # Pause between post fetches (1s-5s)
  request_delay: 2s

  # Insert a triple-length pause after this many posts
  long_pause_every: 20

  # HTTP request timeout
  request_timeout: 30s

# Rate limiting and retries
rate_limit:
  # Strategy: conservative, aggressive, adaptive
  strategy: adaptive

  # Maximum retry attempts for failed requests
  max_retries: 3

  # Initial delay between retries
  retry_delay: 5s

# Output settings
output:
  # Directory for JSON reports and CSV timelines
  data_directory: ./data

# Optional AI insights (profile category and location)
insights:
  # Gemini API key (or set GEMINI_API_KEY)
  gemini_api_key: ""
  model: gemini-pro

# Dashboard server
server:
  address: ":8632"

  # Cap on POST /api/scrape requests per minute
  scrapes_per_minute: 5

# Logging
logging:
  # Log level: debug, info, warn, error
  level: info

  # Log file path (empty logs to stderr)
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "instalytics.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, "Configuration file already exists: %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		fatal("Failed to create configuration file", err)
	}

	fmt.Println("Configuration file created:", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Optionally add Instagram credentials (or use 'instalytics auth login')")
	fmt.Println("2. Start analyzing with 'instalytics scrape <username>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	displayCfg := *cfg
	displayCfg.Instagram.SessionID = maskValue(displayCfg.Instagram.SessionID)
	displayCfg.Instagram.CSRFToken = maskValue(displayCfg.Instagram.CSRFToken)
	displayCfg.Insights.GeminiAPIKey = maskValue(displayCfg.Insights.GeminiAPIKey)

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		fatal("Failed to format configuration", err)
	}

	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (INSTALYTICS_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func maskValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) > 8 {
		return value[:4] + "..." + value[len(value)-4:]
	}
	return "***"
}
