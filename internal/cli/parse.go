package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output    string // output file path (stdout if empty)
	timestamp int64  // fixed timestamp for synthesized ids
	seed      uint64 // fixed seed for synthesized ids
}

// parseCommand creates the parse command, which converts XML-Craft to
// node-graph JSON.
func (c *CLI) parseCommand() *cobra.Command {
	opts := &parseOpts{}

	cmd := &cobra.Command{
		Use:   "parse <page.xml>",
		Short: "Convert XML-Craft to node-graph JSON",
		Long: `Parse an XML-Craft page into a node-graph document.

Elements without an id get one of the form <type>_<timestamp>_<suffix>. Pass
--timestamp and --seed to make those ids reproducible. Problems that do not
stop the parse are listed as issues. Use - to read from stdin.`,
		Example: `  pagecraft parse landing.xml -o landing.json
  cat landing.xml | pagecraft parse - --timestamp 1700000000000 --seed 7`,
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

			res, err := runner.ParseXML(ctx, in, pipeline.LoadOptions{
				Timestamp: opts.timestamp,
				Seed:      opts.seed,
			})
			if err != nil {
				return failed(err)
			}

			var buf bytes.Buffer
			if err := runner.Encode(ctx, res.Document, pipeline.FormatJSON, &buf); err != nil {
				return err
			}
			if err := writeOutput(cmd, opts.output, buf.Bytes()); err != nil {
				return err
			}

			printIssues(res.Issues)
			printSuccess("Parsed %s", displayName(args[0]))
			if opts.output != "" {
				printFile(opts.output)
			}
			printStats(res.Stats.NodeCount, len(res.Issues))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Int64Var(&opts.timestamp, "timestamp", 0, "timestamp in ms for synthesized ids (default now)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for synthesized id suffixes (default from timestamp)")

	return cmd
}
