package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/pipeline"
)

// formatCommand creates the format command, which writes any document as
// XML-Craft.
func (c *CLI) formatCommand() *cobra.Command {
	var output, from string

	cmd := &cobra.Command{
		Use:   "format <document>",
		Short: "Write a document as XML-Craft",
		Long: `Serialize a document to XML-Craft.

The input may be node-graph JSON, simplified input or XML-Craft; formatting
an XML file rewrites it in canonical form. Default values and synthesized
ids are left out of the output.`,
		Example: `  pagecraft format landing.json -o landing.xml
  pagecraft format - --from json < landing.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(ctx, true)
			defer runner.Close()

			res, err := loadDocument(ctx, cmd, runner, args[0], from, pipeline.LoadOptions{})
			if err != nil {
				return err
			}
			data, err := runner.SerializeXML(ctx, res.Document)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, data); err != nil {
				return err
			}

			printIssues(res.Issues)
			printSuccess("Formatted %s", displayName(args[0]))
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	addFromFlag(cmd, &from)

	return cmd
}
