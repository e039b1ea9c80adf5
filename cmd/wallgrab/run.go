package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"wallgrab/internal/downloader"
	"wallgrab/pkg/auth"
	"wallgrab/pkg/config"
	"wallgrab/pkg/errors"
	"wallgrab/pkg/inventory"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/notify"
	"wallgrab/pkg/pipeline"
	"wallgrab/pkg/scraper"
	"wallgrab/pkg/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape, download and notify pass",
	Long: `Run one pass of the pipeline:

  1. render the listing page and load the catalog inventory concurrently
  2. keep posts that are new and end in png, jpg or jpeg
  3. download them concurrently into the storage directory
  4. post "<name> was downloaded" or "<name> was not downloaded" per image

If the listing or the catalog cannot be read, a single error message is
posted and the command exits with status 1.`,
	Example: `  # Use configuration from .wallgrab.yaml and the environment
  wallgrab run

  # Fetch the listing without a browser and log notifications locally
  wallgrab run --renderer http --notify log

  # Limit parallel downloads
  wallgrab run --concurrency 4 --storage-dir /srv/backgrounds`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("listing-url", "", "listing page to scrape")
	cmd.Flags().String("renderer", "", "listing renderer (browser, http)")
	cmd.Flags().String("endpoint", "", "GraphQL catalog endpoint")
	cmd.Flags().String("storage-dir", "", "directory downloaded images are written to")
	cmd.Flags().Int("concurrency", 0, "maximum parallel downloads (0 starts all at once)")
	cmd.Flags().String("notify", "", "notification channel type (slack, log, none)")
}

// collectFlags returns the flags the user set explicitly
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	for _, name := range []string{"listing-url", "renderer", "endpoint", "storage-dir", "notify"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = f.Value.String()
		}
	}
	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		if n, err := strconv.Atoi(f.Value.String()); err == nil {
			flags["concurrency"] = n
		}
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		out().Error("Invalid configuration", err)
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		out().Error("Failed to initialize logger", err)
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("wallgrab starting")

	runner, store, err := buildRunner(cfg, log, nil)
	if err != nil {
		out().Error("Failed to initialize", err)
		return err
	}

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		out().Error("Run failed", err)
		return err
	}

	out().Success("Run completed")
	out().Info("Scraped", strconv.Itoa(summary.Scraped))
	out().Info("Already stored", strconv.Itoa(summary.Known))
	out().Info("Downloaded", strconv.Itoa(summary.Downloaded))
	if summary.Failed > 0 {
		out().Warning("Failed downloads", summary.Failed)
	}
	out().Info("Saved to", store.GetOutputDir())
	return nil
}

// buildRunner wires the pipeline from configuration. creds is consulted for
// the Slack token when none is configured; nil opens the default credential stores.
func buildRunner(cfg *config.Config, log logger.Logger, creds *auth.Manager) (*pipeline.Runner, *storage.Manager, error) {
	if cfg.Notifications.Type == config.NotifySlack && cfg.Notifications.Token == "" {
		token, err := resolveToken(creds)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrorTypeConfig, err,
				"no Slack bot token; set WALLGRAB_SLACK_TOKEN or run 'wallgrab auth login'")
		}
		cfg.Notifications.Token = token
	}

	sender, err := notify.NewSender(cfg.Notifications, log)
	if err != nil {
		return nil, nil, err
	}

	src, err := scraper.New(cfg.Listing, log)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewManager(cfg.Storage.Directory)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrorTypeConfig, err, "storage directory")
	}

	pool := downloader.NewPool(downloader.New(cfg.Download, store, log), cfg.Download.Concurrency, log)

	runner := pipeline.NewRunner(
		cfg.Listing.URL,
		src,
		inventory.New(cfg.Inventory, log),
		pool,
		notify.NewNotifier(sender, cfg.Notifications, log),
		log,
	)
	return runner, store, nil
}

func resolveToken(creds *auth.Manager) (string, error) {
	if creds == nil {
		m, err := auth.NewManager()
		if err != nil {
			return "", fmt.Errorf("open credential store: %w", err)
		}
		creds = m
	}
	return creds.Token(auth.DefaultName)
}
