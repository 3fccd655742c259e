package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/outline"
	"github.com/matzehuels/pagecraft/pkg/pipeline"
)

// outlineOpts holds the command-line flags for the outline command.
type outlineOpts struct {
	output   string // output file path (stdout if empty)
	from     string // input format override
	format   string // svg or dot
	detailed bool   // list non-default properties on each node
	noCache  bool   // bypass the cache entirely
}

// outlineCommand creates the outline command, which draws the node
// hierarchy of a document.
func (c *CLI) outlineCommand() *cobra.Command {
	opts := &outlineOpts{}

	cmd := &cobra.Command{
		Use:   "outline <document>",
		Short: "Draw the node hierarchy of a document",
		Long: `Draw a document's node tree as a Graphviz diagram.

The format follows the output extension (.svg or .dot) unless --format is
given, and defaults to SVG. With --detailed every node lists the properties
that differ from their defaults.`,
		Example: `  pagecraft outline landing.xml -o landing.svg
  pagecraft outline landing.json --format dot --detailed | dot -Tpng > tree.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outlineFormat(opts.format, opts.output)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner := c.newRunner(ctx, opts.noCache)
			defer runner.Close()

			res, err := loadDocument(ctx, cmd, runner, args[0], opts.from, pipeline.LoadOptions{})
			if err != nil {
				return err
			}

			data, cached, err := runner.Outline(ctx, res.Document, pipeline.OutlineOptions{
				Format:   format,
				Detailed: opts.detailed,
			})
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, opts.output, data); err != nil {
				return err
			}

			printSuccess("Outlined %s", displayName(args[0]))
			if opts.output != "" {
				printFile(opts.output)
			}
			printCacheStatus(len(data), cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	addFromFlag(cmd, &opts.from)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "diagram format: svg or dot")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(outline.FormatSVG), string(outline.FormatDOT)},
		cobra.ShellCompDirectiveNoFileComp,
	))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show non-default properties on each node")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// outlineFormat resolves the diagram format from the flag or the output
// file extension.
func outlineFormat(flag, output string) (outline.Format, error) {
	name := flag
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch outline.Format(name) {
	case "", outline.FormatSVG:
		return outline.FormatSVG, nil
	case outline.FormatDOT, "gv":
		return outline.FormatDOT, nil
	}
	if flag == "" {
		return outline.FormatSVG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid outline format %q (must be svg or dot)", flag)
}
