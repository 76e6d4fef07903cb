package cli

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"

	"contentkit/internal/bot"
	"contentkit/internal/preview"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Publishes documents to Telegram chats until interrupted. Needs
TELEGRAM_BOT_TOKEN. Bookmarks and cached responses share CACHE_PATH.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	if err := app.cfg.RequireBotToken(); err != nil {
		return err
	}
	log := app.log
	ctx := cmd.Context()

	log.Info("Initializing components...")
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)
	go store.RunGC(ctx, app.cfg.CacheGCInterval)

	// Without a local browser every snapshot would fail.
	var previewer preview.Previewer
	if _, ok := launcher.LookPath(); ok {
		previewer = previewerFactory()
	} else {
		log.Warn("No browser found, /preview is disabled")
	}

	handler, err := bot.NewHandler(app.cfg, newClient(store), store, previewer, log)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot handler: %w", err)
	}

	log.Info("contentkit bot is running. Press Ctrl+C to exit.")
	handler.Start(ctx)
	log.Info("contentkit bot shut down gracefully.")
	return nil
}
