package cli

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/pipeline"
)

// expandOpts holds the command-line flags for the expand command.
type expandOpts struct {
	output string // output file path (stdout if empty)
	xml    bool   // write XML-Craft instead of JSON
}

// expandCommand creates the expand command, which turns simplified input
// into a full document.
func (c *CLI) expandCommand() *cobra.Command {
	opts := &expandOpts{}

	cmd := &cobra.Command{
		Use:   "expand <input.json>",
		Short: "Expand simplified input into a page document",
		Long: `Expand a simplified page description (sections with a layout and a list of
elements) into a complete node-graph document.

The output is JSON unless --xml is given or the output file ends in .xml.
Use - to read from stdin.`,
		Example: `  pagecraft expand landing.input.json -o landing.json
  pagecraft expand landing.input.json --xml > landing.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(ctx, true)
			defer runner.Close()

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			prog := newProgress(c.Logger)
			res, err := runner.ExpandReader(ctx, in)
			if err != nil {
				return err
			}
			prog.done("expanded input", "nodes", res.Stats.NodeCount)

			format := pipeline.FormatJSON
			if opts.xml || strings.EqualFold(filepath.Ext(opts.output), ".xml") {
				format = pipeline.FormatXML
			}
			var buf bytes.Buffer
			if err := runner.Encode(ctx, res.Document, format, &buf); err != nil {
				return err
			}
			if err := writeOutput(cmd, opts.output, buf.Bytes()); err != nil {
				return err
			}

			printIssues(res.Issues)
			printSuccess("Expanded %s", displayName(args[0]))
			if opts.output != "" {
				printFile(opts.output)
			}
			printStats(res.Stats.NodeCount, len(res.Issues))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.xml, "xml", false, "write XML-Craft instead of JSON")

	return cmd
}
