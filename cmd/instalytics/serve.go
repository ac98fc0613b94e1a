package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"instalytics/internal/jobs"
	"instalytics/internal/server"
	"instalytics/pkg/config"
	"instalytics/pkg/insights"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
	"instalytics/pkg/scraper"
	"instalytics/pkg/storage"
)

var (
	serveAddr    string
	serveAccount string
	serveWorkers int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analytics dashboard and API server",
	Long: `Start the HTTP server hosting the analytics dashboard and REST API.

The dashboard at / visualizes saved reports. The API exposes:
  POST /api/scrape                  queue a background analytics run
  GET  /api/jobs/:id                job status
  GET  /api/runs                    list saved runs
  GET  /api/runs/:id                full report
  GET  /api/runs/:id/timeline.csv   engagement timeline`,
	Example: `  # Serve on the default address
  instalytics serve

  # Serve on a custom port with two scrape workers
  instalytics serve --addr :9000 --workers 2`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: :8632)")
	serveCmd.Flags().StringVarP(&serveAccount, "account", "a", "", "use specific stored account for scrape jobs")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 1, "number of concurrent scrape workers")
}

func runServe(cmd *cobra.Command, args []string) {
	flags := globalFlags()
	if serveAddr != "" {
		flags["addr"] = serveAddr
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fatal("Failed to initialize logger", err)
	}
	log := logger.GetLogger()

	resolveCredentials(cfg, serveAccount, log)

	client := instagram.NewClient(cfg.Scrape.RequestTimeout, log)
	if cfg.Instagram.UserAgent != "" {
		client.SetUserAgent(cfg.Instagram.UserAgent)
	}
	if cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		client.WithSession(cfg.Instagram.SessionID, cfg.Instagram.CSRFToken)
	}

	store, err := storage.NewManager(cfg.Output.DataDirectory)
	if err != nil {
		fatal("Failed to prepare data directory", err)
	}

	insightsClient := insights.NewClient(cfg.Insights.GeminiAPIKey, cfg.Insights.Model, log)

	s := scraper.New(cfg, client, store, insightsClient, log)
	attachSessionPool(s, log)
	manager := jobs.NewManager(s, serveWorkers, log)
	srv := server.New(&cfg.Server, manager, store, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Dashboard listening on %s\n", cfg.Server.Address)
	if err := srv.Start(ctx); err != nil {
		fatal("Server failed", err)
	}
}
