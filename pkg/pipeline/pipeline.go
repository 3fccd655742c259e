// Package pipeline runs page documents through conversion, validation and
// rendering.
//
// This package is shared by the CLI and the HTTP API so both entry points
// load, validate and render documents the same way.
//
// # Stages
//
//  1. Load: expand a simplified input, parse XML-Craft or decode JSON
//  2. Validate: collect every rule violation as issues
//  3. Output: serialize to XML-Craft or JSON, render through the external
//     service, or draw an outline diagram
//
// Conversions are pure and never cached. Render and outline artifacts are
// cached by a hash of the document JSON and the options that change them.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	runner.Renderer = render.NewClient(cfg.RenderOptions())
//	res, err := runner.Expand(ctx, input)
//	if err != nil {
//	    return err
//	}
//	html, _, err := runner.Render(ctx, res.Document, pipeline.RenderOptions{})
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/outline"
	"github.com/matzehuels/pagecraft/pkg/validate"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON  Format = "json"  // node-graph JSON
	FormatXML   Format = "xml"   // XML-Craft
	FormatInput Format = "input" // simplified input
)

// DefaultRenderTTL is how long rendered pages stay cached.
const DefaultRenderTTL = 24 * time.Hour

// DefaultOutlineTTL is how long outline diagrams stay cached.
const DefaultOutlineTTL = 7 * 24 * time.Hour

// DetectFormat guesses the encoding of a file from its extension. Files
// ending in .input.json hold simplified input.
func DetectFormat(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".input.json"):
		return FormatInput, nil
	case filepath.Ext(lower) == ".json":
		return FormatJSON, nil
	case filepath.Ext(lower) == ".xml":
		return FormatXML, nil
	}
	return "", fmt.Errorf("cannot tell the format of %q (want .json, .input.json or .xml)", path)
}

// ParseFormat checks a format name given by a user.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatXML, FormatInput:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %q (must be one of: json, xml, input)", s)
}

// LoadOptions configures how documents are read.
type LoadOptions struct {
	// Timestamp and Seed fix the identifiers the XML parser synthesizes.
	// Zero means the current time and a timestamp-derived seed.
	Timestamp int64
	Seed      uint64
}

// RenderOptions configures a render request.
type RenderOptions struct {
	// Refresh skips the cache lookup but still stores the result.
	Refresh bool
}

// OutlineOptions configures an outline diagram.
type OutlineOptions struct {
	Format   outline.Format
	Detailed bool
	Refresh  bool
}

// Result is a loaded document and the issues found in it.
type Result struct {
	Document *doc.Document
	Issues   validate.Issues
	Stats    Stats
}

// Valid reports whether the document had no issues.
func (r *Result) Valid() bool { return len(r.Issues) == 0 }

// Stats describes a pipeline run.
type Stats struct {
	NodeCount int
	Duration  time.Duration
}

// IssuesError is a fatal load error together with the issues found before
// the load stopped, such as the root issue of a document whose root element
// is not a page.
type IssuesError struct {
	Err    error
	Issues validate.Issues
}

func (e *IssuesError) Error() string { return e.Err.Error() }

func (e *IssuesError) Unwrap() error { return e.Err }

// IssuesOf returns the issues attached to err, or nil.
func IssuesOf(err error) validate.Issues {
	var ie *IssuesError
	if stderrors.As(err, &ie) {
		return ie.Issues
	}
	return nil
}

// Renderer turns a document into HTML. [render.Client] implements it.
type Renderer interface {
	Render(ctx context.Context, d *doc.Document) ([]byte, error)
	URL() string
}
