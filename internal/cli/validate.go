package cli

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/pipeline"
	"github.com/matzehuels/pagecraft/pkg/validate"
)

// validateOpts holds the command-line flags for the validate command.
type validateOpts struct {
	from        string // input format override
	interactive bool   // browse issues in a TUI
	json        bool   // print issues as JSON
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	opts := &validateOpts{}

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Check a document against the nesting and attribute rules",
		Long: `Validate a document and list every rule it breaks.

XML input reports parser issues and validator issues together. The command
exits with an error when any issue is found, so it can gate a CI step.`,
		Example: `  pagecraft validate landing.xml
  pagecraft validate landing.json --json | jq '.[].code'
  pagecraft validate landing.xml -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(ctx, true)
			defer runner.Close()

			res, err := loadDocument(ctx, cmd, runner, args[0], opts.from, pipeline.LoadOptions{})
			if err != nil {
				if issues := pipeline.IssuesOf(err); opts.json && len(issues) > 0 {
					_ = writeIssuesJSON(cmd, issues)
				}
				return err
			}

			switch {
			case opts.json:
				if err := writeIssuesJSON(cmd, res.Issues); err != nil {
					return err
				}
			case opts.interactive && len(res.Issues) > 0:
				model := NewIssueBrowserModel(displayName(args[0]), res.Issues)
				if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
					return err
				}
			case len(res.Issues) > 0:
				printIssues(res.Issues)
			default:
				printSuccess("%s is valid", displayName(args[0]))
				printStats(res.Stats.NodeCount, 0)
			}

			if len(res.Issues) > 0 {
				return errors.New(errors.ErrCodeInvalidDocument, "%s: %s", displayName(args[0]), pluralize(len(res.Issues), "issue"))
			}
			return nil
		},
	}

	addFromFlag(cmd, &opts.from)
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse issues interactively")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print issues as JSON")
	cmd.MarkFlagsMutuallyExclusive("interactive", "json")

	return cmd
}

// writeIssuesJSON prints issues as an indented JSON array; no issues print
// as [].
func writeIssuesJSON(cmd *cobra.Command, issues validate.Issues) error {
	if issues == nil {
		issues = validate.Issues{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(issues)
}
