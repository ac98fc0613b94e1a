package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Limits for user-tunable scrape parameters.
const (
	MinPosts = 10
	MaxPosts = 100
	MinDelay = 1 * time.Second
	MaxDelay = 5 * time.Second
)

// Config holds all configuration options for the analytics scraper
type Config struct {
	// Instagram credentials
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Scrape run settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// AI insights (optional)
	Insights InsightsConfig `yaml:"insights" json:"insights"`

	// Dashboard server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// ScrapeConfig holds per-run scrape parameters
type ScrapeConfig struct {
	// MaxPosts is the number of recent posts to analyze (10-100)
	MaxPosts int `yaml:"max_posts" json:"max_posts"`
	// RequestDelay is the pause between post fetches (1-5s)
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
	// LongPauseEvery inserts a triple-length pause after this many posts
	LongPauseEvery int           `yaml:"long_pause_every" json:"long_pause_every"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// RateLimitConfig holds rate limiting and retry configuration
type RateLimitConfig struct {
	// Strategy is one of: conservative, aggressive, adaptive
	Strategy   string        `yaml:"strategy" json:"strategy"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	DataDirectory string `yaml:"data_directory" json:"data_directory"`
}

// InsightsConfig holds the optional Gemini integration settings
type InsightsConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" json:"gemini_api_key"`
	Model        string `yaml:"model" json:"model"`
}

// ServerConfig holds dashboard server configuration
type ServerConfig struct {
	Address string `yaml:"address" json:"address"`
	// ScrapesPerMinute caps POST /api/scrape requests
	ScrapesPerMinute int `yaml:"scrapes_per_minute" json:"scrapes_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Scrape: ScrapeConfig{
			MaxPosts:       50,
			RequestDelay:   2 * time.Second,
			LongPauseEvery: 20,
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Strategy:   "adaptive",
			MaxRetries: 3,
			RetryDelay: 5 * time.Second,
		},
		Output: OutputConfig{
			DataDirectory: "./data",
		},
		Insights: InsightsConfig{
			Model: "gemini-pro",
		},
		Server: ServerConfig{
			Address:          ":8632",
			ScrapesPerMinute: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("INSTALYTICS_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("INSTALYTICS_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("INSTALYTICS_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if maxPosts := os.Getenv("INSTALYTICS_MAX_POSTS"); maxPosts != "" {
		var val int
		fmt.Sscanf(maxPosts, "%d", &val)
		if val > 0 {
			c.Scrape.MaxPosts = val
		}
	}
	if delay := os.Getenv("INSTALYTICS_REQUEST_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d > 0 {
			c.Scrape.RequestDelay = d
		}
	}

	if dataDir := os.Getenv("INSTALYTICS_DATA_DIR"); dataDir != "" {
		c.Output.DataDirectory = dataDir
	}

	// Both spellings accepted; the short one matches the original dashboard.
	if key := os.Getenv("INSTALYTICS_GEMINI_API_KEY"); key != "" {
		c.Insights.GeminiAPIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Insights.GeminiAPIKey = key
	}

	if addr := os.Getenv("INSTALYTICS_ADDR"); addr != "" {
		c.Server.Address = addr
	}

	if logLevel := os.Getenv("INSTALYTICS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".instalytics.yaml",
		".instalytics.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "instalytics", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "instalytics", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".instalytics.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// ClampPosts forces a post count into the documented 10-100 range
func ClampPosts(n int) int {
	if n < MinPosts {
		return MinPosts
	}
	if n > MaxPosts {
		return MaxPosts
	}
	return n
}

// ClampDelay forces an inter-request delay into the documented 1-5s range
func ClampDelay(d time.Duration) time.Duration {
	if d < MinDelay {
		return MinDelay
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}

// ClampScrape forces the user-tunable scrape parameters into their
// documented ranges: 10-100 posts, 1-5 second delay.
func (c *Config) ClampScrape() {
	c.Scrape.MaxPosts = ClampPosts(c.Scrape.MaxPosts)
	c.Scrape.RequestDelay = ClampDelay(c.Scrape.RequestDelay)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Scrape.MaxPosts <= 0 {
		errs = append(errs, errors.New("max posts must be positive"))
	}
	if c.Scrape.RequestDelay <= 0 {
		errs = append(errs, errors.New("request delay must be positive"))
	}
	if c.Scrape.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	validStrategies := map[string]bool{
		"conservative": true, "aggressive": true, "adaptive": true,
	}
	if !validStrategies[strings.ToLower(c.RateLimit.Strategy)] {
		errs = append(errs, errors.New("invalid rate limit strategy"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Output.DataDirectory == "" {
		errs = append(errs, errors.New("data directory is required"))
	}

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.Server.ScrapesPerMinute <= 0 {
		errs = append(errs, errors.New("scrapes per minute must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if maxPosts, ok := flags["posts"].(int); ok && maxPosts > 0 {
		c.Scrape.MaxPosts = maxPosts
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay > 0 {
		c.Scrape.RequestDelay = delay
	}
	if dataDir, ok := flags["output"].(string); ok && dataDir != "" {
		c.Output.DataDirectory = dataDir
	}
	if addr, ok := flags["addr"].(string); ok && addr != "" {
		c.Server.Address = addr
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".instalytics.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
