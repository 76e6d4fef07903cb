// Package cli implements the contentkit command tree.
package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"contentkit/internal/config"
	"contentkit/internal/logging"
	"contentkit/internal/storage"
	"contentkit/pkg/fragments"
	"contentkit/pkg/prismic"
)

var version = "dev"

var (
	configPath string
	logLevel   string
)

// app is the state shared by the subcommands, loaded before any of them
// runs.
var app struct {
	cfg config.Config
	log *logrus.Logger
}

var rootCmd = &cobra.Command{
	Use:   "contentkit",
	Short: "Query, render and publish headless CMS content",
	Long: `contentkit talks to the REST API of a headless content repository.
It renders documents to HTML, searches them with predicates, takes browser
snapshots and publishes documents through a Telegram bot.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
}

// ExecuteContext runs the command tree.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}
	fragments.SetLogger(log)

	log.WithFields(logrus.Fields{
		"api_endpoint": cfg.APIEndpoint,
		"cache_path":   cfg.CachePath,
	}).Debug("Configuration loaded successfully")

	app.cfg = cfg
	app.log = log
	return nil
}

// openStore opens the Badger database holding cached responses and
// bookmarks. The caller closes it.
func openStore() (*storage.BadgerStore, error) {
	store, err := storage.NewBadgerStore(app.cfg.CachePath, app.log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func closeStore(store *storage.BadgerStore) {
	if err := store.Close(); err != nil {
		app.log.WithError(err).Error("Error closing database")
	}
}

// newClient returns a repository client configured from app.cfg.
func newClient(cache prismic.Cache) *prismic.Client {
	transport := prismic.NewHTTPTransport(
		prismic.WithHTTPClient(&http.Client{Timeout: app.cfg.RequestTimeout}),
		prismic.WithRetry(app.cfg.RetryMaxElapsed),
		prismic.WithRateLimit(app.cfg.RequestsPerSecond),
		prismic.WithUserAgent("contentkit/"+version),
		prismic.WithTransportLogger(app.log),
	)
	return prismic.NewClient(app.cfg.APIEndpoint,
		prismic.WithAccessToken(app.cfg.AccessToken),
		prismic.WithCache(cache),
		prismic.WithTransport(transport),
		prismic.WithLogger(app.log),
	)
}
