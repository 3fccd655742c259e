package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/pipeline"
)

// stdio is the path that means stdin for inputs.
const stdio = "-"

// nopCloser wraps an io.Reader with a no-op Close method.
// It is used to make stdin compatible with io.ReadCloser.
type nopCloser struct{ io.Reader }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openInput opens path for reading. "-" reads the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == stdio {
		return nopCloser{cmd.InOrStdin()}, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no such file: %s", path)
	}
	return f, err
}

// writeOutput writes data to path, or to the command's stdout when path
// is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// inputFormat picks the format of an input file. An explicit --from value
// wins over the extension; stdin always needs one.
func inputFormat(path, from string) (pipeline.Format, error) {
	if from != "" {
		f, err := pipeline.ParseFormat(from)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "--from")
		}
		return f, nil
	}
	if path == stdio {
		return "", errors.New(errors.ErrCodeInvalidFormat, "reading stdin needs --from json|xml|input")
	}
	f, err := pipeline.DetectFormat(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "detect format")
	}
	return f, nil
}

// loadDocument reads a document in whatever format path holds.
func loadDocument(ctx context.Context, cmd *cobra.Command, r *pipeline.Runner, path, from string, opts pipeline.LoadOptions) (*pipeline.Result, error) {
	format, err := inputFormat(path, from)
	if err != nil {
		return nil, err
	}
	in, err := openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	res, err := r.Load(ctx, in, format, opts)
	if err != nil {
		return nil, failed(err)
	}
	return res, nil
}

// failed prints the issues that came with a fatal load error and returns
// the error.
func failed(err error) error {
	if issues := pipeline.IssuesOf(err); len(issues) > 0 {
		printIssues(issues)
	}
	return err
}

// displayName names an input in status lines.
func displayName(path string) string {
	if path == stdio {
		return "stdin"
	}
	return path
}

// addFromFlag registers --from with shell completion of the format names.
func addFromFlag(cmd *cobra.Command, from *string) {
	cmd.Flags().StringVar(from, "from", "", "input format: json, xml or input (default from extension)")
	_ = cmd.RegisterFlagCompletionFunc("from", cobra.FixedCompletions(
		[]string{string(pipeline.FormatJSON), string(pipeline.FormatXML), string(pipeline.FormatInput)},
		cobra.ShellCompDirectiveNoFileComp,
	))
}
