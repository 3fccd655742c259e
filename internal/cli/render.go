package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path (stdout if empty)
	from    string // input format override
	noCache bool   // bypass the cache entirely
	refresh bool   // re-render and overwrite the cached copy
	strict  bool   // refuse to render documents with issues
}

// renderCommand creates the render command, which sends a document to the
// render service and writes the HTML it returns.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a document to HTML through the render service",
		Long: `Render a document by posting it to the render service configured under
[render] in the config file (or PAGECRAFT_RENDER_URL).

Rendered pages are cached by document hash and endpoint. Use --refresh to
replace a cached page or --no-cache to skip the cache altogether. Issues in
the document are reported but do not stop the render unless --strict is set.`,
		Example: `  pagecraft render landing.xml -o landing.html
  pagecraft render landing.json --refresh -o landing.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(ctx, opts.noCache)
			defer runner.Close()

			res, err := loadDocument(ctx, cmd, runner, args[0], opts.from, pipeline.LoadOptions{})
			if err != nil {
				return err
			}
			printIssues(res.Issues)
			if opts.strict && !res.Valid() {
				return errors.New(errors.ErrCodeInvalidDocument, "not rendering %s: %s", displayName(args[0]), pluralize(len(res.Issues), "issue"))
			}

			var (
				html   []byte
				cached bool
			)
			prog := newProgress(c.Logger)
			err = withSpinner(ctx, "Rendering "+displayName(args[0])+"...", func() error {
				var rerr error
				html, cached, rerr = runner.Render(ctx, res.Document, pipeline.RenderOptions{Refresh: opts.refresh})
				return rerr
			})
			if err != nil {
				printError("Render failed")
				return err
			}
			prog.done("rendered page", "bytes", len(html), "cached", cached)

			if err := writeOutput(cmd, opts.output, html); err != nil {
				return err
			}
			printSuccess("Rendered %s", displayName(args[0]))
			if opts.output != "" {
				printFile(opts.output)
			}
			printCacheStatus(len(html), cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	addFromFlag(cmd, &opts.from)
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached page exists")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when the document has issues")
	cmd.MarkFlagsMutuallyExclusive("no-cache", "refresh")

	return cmd
}
