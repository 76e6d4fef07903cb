package cli

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"contentkit/internal/bot"
	"contentkit/internal/site"
	"contentkit/pkg/prismic"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	searchType       string
	searchTags       []string
	searchPage       int
	searchPageSize   int
	searchOrderings  string
	searchFetchLinks []string
	searchRef        string
	searchLang       string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search documents of the repository",
	Long: `Queries the everything form. The optional text argument is matched with a
fulltext predicate; --type and --tag narrow the results further.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "document type")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "documents carrying any of these tags")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "page number")
	searchCmd.Flags().IntVarP(&searchPageSize, "page-size", "n", 20, "results per page")
	searchCmd.Flags().StringVar(&searchOrderings, "orderings", "", "orderings, e.g. [my.article.date desc]")
	searchCmd.Flags().StringSliceVar(&searchFetchLinks, "fetch-links", nil, "fields of linked documents to fetch")
	searchCmd.Flags().StringVar(&searchRef, "ref", "", "release ref, defaults to master")
	searchCmd.Flags().StringVar(&searchLang, "lang", "", "document language")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchPredicates builds the query from the command line.
func searchPredicates(args []string) []prismic.Predicate {
	var preds []prismic.Predicate
	if searchType != "" {
		preds = append(preds, prismic.At("document.type", searchType))
	}
	if len(searchTags) > 0 {
		preds = append(preds, prismic.Any("document.tags", searchTags))
	}
	if len(args) == 1 && args[0] != "" {
		preds = append(preds, prismic.Fulltext("document", args[0]))
	}
	return preds
}

func searchOptions() []prismic.QueryOption {
	opts := []prismic.QueryOption{
		prismic.WithPage(searchPage),
		prismic.WithPageSize(searchPageSize),
	}
	if searchOrderings != "" {
		opts = append(opts, prismic.WithOrderings(searchOrderings))
	}
	if len(searchFetchLinks) > 0 {
		opts = append(opts, prismic.WithFetchLinks(searchFetchLinks...))
	}
	if searchRef != "" {
		opts = append(opts, prismic.WithRef(searchRef))
	}
	if searchLang != "" {
		opts = append(opts, prismic.WithLang(searchLang))
	}
	return opts
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	resp, err := newClient(store).Query(cmd.Context(), searchPredicates(args), searchOptions()...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := summarize(resp)
	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, resp, results)
	return nil
}

// searchResult is the printed summary of one document.
type searchResult struct {
	ID    string   `json:"id"`
	UID   string   `json:"uid,omitempty"`
	Type  string   `json:"type"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Tags  []string `json:"tags,omitempty"`
}

func summarize(resp *prismic.Response) []searchResult {
	resolver := site.Resolver(app.cfg.LinkPattern)
	results := make([]searchResult, 0, len(resp.Results))
	for _, doc := range resp.Results {
		results = append(results, searchResult{
			ID:    doc.ID,
			UID:   doc.UID,
			Type:  doc.Type,
			Title: bot.Title(doc),
			URL:   resolver(doc.AsLink()),
			Tags:  doc.Tags,
		})
	}
	return results
}

func outputSearchJSON(cmd *cobra.Command, results []searchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *prismic.Response, results []searchResult) {
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Results:")
	fmt.Fprintln(cmd.OutOrStdout())
	for i, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %s (%s)\n", i+1, r.Title, r.Type)
		fmt.Fprintf(cmd.OutOrStdout(), "      %s  %s\n", r.ID, r.URL)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d, %d results\n", resp.Page, resp.TotalPages, resp.TotalResultsSize)
}
