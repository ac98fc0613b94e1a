package main

import (
	goerrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"instalytics/pkg/auth"
	"instalytics/pkg/config"
	"instalytics/pkg/errors"
	"instalytics/pkg/insights"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
	"instalytics/pkg/scraper"
	"instalytics/pkg/session"
	"instalytics/pkg/storage"
)

var (
	// Scrape command flags
	scrapePosts    int
	scrapeDelay    time.Duration
	scrapeOutput   string
	scrapeAccount  string
	scrapeInsights bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Analyze an Instagram profile and save the report",
	Long: `Fetch a profile's recent posts and compute engagement analytics.

The report is saved as JSON in the data directory along with a CSV
engagement timeline. Between 10 and 100 recent posts are analyzed;
values outside that range are clamped.

Credentials are optional for public profiles. To analyze while logged
in, store credentials with 'instalytics auth login' or set the
INSTALYTICS_SESSION_ID and INSTALYTICS_CSRF_TOKEN environment variables.`,
	Example: `  # Analyze the 50 most recent posts
  instalytics scrape nasa

  # Analyze 100 posts with a slower request pace
  instalytics scrape nasa --posts 100 --delay 4s

  # Use a specific stored account
  instalytics scrape nasa --account myaccount

  # Include AI category and location inference (requires GEMINI_API_KEY)
  instalytics scrape nasa --insights`,
	Args: cobra.ExactArgs(1),
	Run:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVarP(&scrapePosts, "posts", "n", 50, "number of recent posts to analyze (10-100)")
	scrapeCmd.Flags().DurationVar(&scrapeDelay, "delay", 2*time.Second, "delay between post fetches (1s-5s)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "data directory for reports (default: ./data)")
	scrapeCmd.Flags().StringVarP(&scrapeAccount, "account", "a", "", "use specific stored account")
	scrapeCmd.Flags().BoolVar(&scrapeInsights, "insights", false, "infer profile category and location with Gemini")
}

func runScrape(cmd *cobra.Command, args []string) {
	username := strings.TrimSpace(args[0])

	flags := globalFlags()
	if scrapePosts != 50 {
		flags["posts"] = scrapePosts
	}
	if scrapeDelay != 2*time.Second {
		flags["delay"] = scrapeDelay
	}
	if scrapeOutput != "" {
		flags["output"] = scrapeOutput
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fatal("Failed to initialize logger", err)
	}
	log := logger.GetLogger()
	log.InfoWithFields("starting analytics run", map[string]interface{}{
		"version":  version,
		"username": username,
	})

	resolveCredentials(cfg, scrapeAccount, log)

	client := instagram.NewClient(cfg.Scrape.RequestTimeout, log)
	if cfg.Instagram.UserAgent != "" {
		client.SetUserAgent(cfg.Instagram.UserAgent)
	}
	if cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		client.WithSession(cfg.Instagram.SessionID, cfg.Instagram.CSRFToken)
	} else {
		fmt.Println("No credentials configured, scraping anonymously (public profiles only)")
	}

	store, err := storage.NewManager(cfg.Output.DataDirectory)
	if err != nil {
		fatal("Failed to prepare data directory", err)
	}

	var insightsClient *insights.Client
	if scrapeInsights {
		insightsClient = insights.NewClient(cfg.Insights.GeminiAPIKey, cfg.Insights.Model, log)
		if !insightsClient.Enabled() {
			fmt.Println("Insights requested but no Gemini API key configured, skipping")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scraper.New(cfg, client, store, insightsClient, log)
	attachSessionPool(s, log)

	fmt.Printf("Analyzing @%s...\n\n", instagram.SanitizeUsername(username))

	result, err := s.Run(ctx, scraper.Options{
		Username:     username,
		MaxPosts:     cfg.Scrape.MaxPosts,
		Delay:        cfg.Scrape.RequestDelay,
		WithInsights: scrapeInsights,
	})
	if err != nil {
		log.ErrorWithFields("analytics run failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var igErr *errors.Error
		if goerrors.As(err, &igErr) {
			if hint := errors.Hint(igErr.Type); hint != "" {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}

	printSummary(result)
}

func printSummary(result *scraper.Result) {
	report := result.Report

	fmt.Printf("Profile:          @%s (%s)\n", report.ProfileInformation.Username, report.ProfileInformation.FullName)
	fmt.Printf("Followers:        %d\n", report.EngagementMetrics.Followers)
	fmt.Printf("Posts analyzed:   %d", report.AnalysisMetadata.PostsAnalyzed)
	if report.AnalysisMetadata.PostsFailed > 0 {
		fmt.Printf(" (%d skipped)", report.AnalysisMetadata.PostsFailed)
	}
	fmt.Println()
	fmt.Printf("Engagement rate:  %.2f%%\n", report.EngagementAnalysis.EngagementRatePercent)
	fmt.Printf("Viral posts:      %d\n", report.EngagementAnalysis.ViralPostCount)
	fmt.Printf("Posting cadence:  %.1f posts/week (%s consistency)\n",
		report.PostingFrequency.PostsPerWeek, report.PostingFrequency.Consistency)
	fmt.Printf("Trend:            %s\n", report.TrendAnalysis.Trend)
	fmt.Printf("Influence score:  %.1f/100\n", report.InfluenceScore.Total)
	fmt.Printf("Data quality:     %s\n", report.AnalysisMetadata.DataQuality)
	fmt.Println()
	fmt.Printf("Report:           %s\n", result.Run.File)
	fmt.Printf("Timeline:         %s\n", result.TimelineFile)
}

// resolveCredentials fills Instagram credentials from the credential
// store when the config does not already carry them.
func resolveCredentials(cfg *config.Config, accountName string, log logger.Logger) {
	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Warn("credential manager unavailable")
		return
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Account not found: %s\n", accountName)
			fmt.Fprintln(os.Stderr, "Use 'instalytics auth list' to see stored accounts")
			os.Exit(1)
		}
	} else if cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		log.Info("using credentials from configuration")
		return
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			return
		}
	}

	cfg.Instagram.SessionID = account.SessionID
	cfg.Instagram.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Instagram.UserAgent = account.UserAgent
	}
	log.WithField("account", account.Username).Info("using stored credentials")
}

// attachSessionPool wires the persisted session pool into the scraper
// when a pool file exists and holds at least one session.
func attachSessionPool(s *scraper.Scraper, log logger.Logger) {
	dir, err := auth.ConfigDir()
	if err != nil {
		return
	}

	path := filepath.Join(dir, "sessions.json")
	if _, err := os.Stat(path); err != nil {
		return
	}

	pool, err := session.NewPool(path, os.Getenv("INSTALYTICS_PASSPHRASE"), log)
	if err != nil {
		log.WithError(err).Warn("session pool unavailable")
		return
	}
	if len(pool.List()) == 0 {
		return
	}

	s.WithSessionPool(pool)
	log.WithField("sessions", len(pool.List())).Info("session pool attached")
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
