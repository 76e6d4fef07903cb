package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"contentkit/internal/site"
	"contentkit/pkg/prismic"
)

var (
	renderByUID bool
	renderField string
	renderRef   string
)

var renderCmd = &cobra.Command{
	Use:   "render <id> | render --uid <type> <uid>",
	Short: "Render a document as HTML",
	Long: `Fetches a document by id, or by type and uid with --uid, and prints it as
HTML. Document links are resolved with LINK_PATTERN.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if renderByUID {
			return cobra.ExactArgs(2)(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderByUID, "uid", false, "look the document up by type and uid")
	renderCmd.Flags().StringVarP(&renderField, "field", "f", "", "render a single field")
	renderCmd.Flags().StringVar(&renderRef, "ref", "", "release ref, defaults to master")
	rootCmd.AddCommand(renderCmd)
}

var errDocumentNotFound = errors.New("document not found")

func runRender(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	doc, err := fetchDocument(cmd, newClient(store), args, renderByUID, renderRef)
	if err != nil {
		return err
	}

	resolver := site.Resolver(app.cfg.LinkPattern)
	if renderField == "" {
		fmt.Fprintln(cmd.OutOrStdout(), doc.AsHTML(resolver, nil))
		return nil
	}
	if doc.Get(doc.Type+"."+renderField) == nil {
		return fmt.Errorf("document %s has no field %q", doc.ID, renderField)
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc.GetHTML(doc.Type+"."+renderField, resolver, nil))
	return nil
}

// fetchDocument looks up args[0] as an id, or args[0] and args[1] as type
// and uid.
func fetchDocument(cmd *cobra.Command, client *prismic.Client, args []string, byUID bool, ref string) (*prismic.Document, error) {
	var opts []prismic.QueryOption
	if ref != "" {
		opts = append(opts, prismic.WithRef(ref))
	}

	var (
		doc *prismic.Document
		err error
	)
	if byUID {
		doc, err = client.GetByUID(cmd.Context(), args[0], args[1], opts...)
	} else {
		doc, err = client.GetByID(cmd.Context(), args[0], opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if doc == nil {
		return nil, errDocumentNotFound
	}
	return doc, nil
}
