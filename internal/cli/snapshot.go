package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contentkit/internal/bot"
	"contentkit/internal/preview"
	"contentkit/internal/site"
)

var (
	snapshotOutput string
	snapshotByUID  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <id> | snapshot --uid <type> <uid>",
	Short: "Save a PNG snapshot of a rendered document",
	Long: `Renders a document to HTML, loads it in a headless Chromium and writes a
full-page PNG. Needs a browser that rod can find or download.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if snapshotByUID {
			return cobra.ExactArgs(2)(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "output file, defaults to <id>.png")
	snapshotCmd.Flags().BoolVar(&snapshotByUID, "uid", false, "look the document up by type and uid")
	rootCmd.AddCommand(snapshotCmd)
}

// previewerFactory is replaced in tests.
var previewerFactory = func() preview.Previewer {
	return preview.NewRodPreviewer(app.log, preview.WithTimeout(app.cfg.SnapshotTimeout))
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	doc, err := fetchDocument(cmd, newClient(store), args, snapshotByUID, "")
	if err != nil {
		return err
	}

	page := preview.Page(bot.Title(doc), doc.AsHTML(site.Resolver(app.cfg.LinkPattern), nil))
	png, err := previewerFactory().Snapshot(cmd.Context(), page)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	out := snapshotOutput
	if out == "" {
		out = doc.ID + ".png"
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(png))
	return nil
}
