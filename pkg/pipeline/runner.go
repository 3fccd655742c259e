package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagecraft/pkg/cache"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/expand"
	"github.com/matzehuels/pagecraft/pkg/ids"
	"github.com/matzehuels/pagecraft/pkg/observability"
	"github.com/matzehuels/pagecraft/pkg/validate"
	"github.com/matzehuels/pagecraft/pkg/xmlcraft"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating loading and caching logic.
//
// The Runner is stateless except for its collaborators; it doesn't store
// results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Renderer Renderer

	// IDs overrides the identifier generator of the expander. Tests set it
	// to get stable output.
	IDs func() ids.Generator

	RenderTTL  time.Duration
	OutlineTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		RenderTTL:  DefaultRenderTTL,
		OutlineTTL: DefaultOutlineTTL,
	}
}

// stage times a pipeline step and reports it to the observability hooks.
type stage struct {
	ctx   context.Context
	name  observability.Stage
	start time.Time
}

func startStage(ctx context.Context, name observability.Stage) *stage {
	observability.Pipeline().OnStageStart(ctx, name)
	return &stage{ctx: ctx, name: name, start: time.Now()}
}

func (s *stage) done(nodes int, err error) time.Duration {
	d := time.Since(s.start)
	observability.Pipeline().OnStageComplete(s.ctx, s.name, nodes, d, err)
	return d
}

// Expand builds a document from simplified input and validates it.
func (r *Runner) Expand(ctx context.Context, in *expand.Input) (*Result, error) {
	st := startStage(ctx, observability.StageExpand)
	opts := expand.Options{Logger: r.Logger}
	if r.IDs != nil {
		opts.IDs = r.IDs()
	}
	d, err := expand.Expand(in, opts)
	if err != nil {
		st.done(0, err)
		return nil, err
	}
	res := &Result{Document: d}
	res.Stats.Duration = st.done(d.Len(), nil)
	if err := r.check(ctx, res); err != nil {
		return nil, err
	}
	r.Logger.Debug("expanded input", "sections", len(in.Sections), "nodes", d.Len(), "duration", res.Stats.Duration)
	return res, nil
}

// ExpandReader decodes simplified input from src and expands it.
func (r *Runner) ExpandReader(ctx context.Context, src io.Reader) (*Result, error) {
	in, err := expand.ReadInput(src)
	if err != nil {
		return nil, err
	}
	return r.Expand(ctx, in)
}

// ParseXML converts XML-Craft text into a document. Issues from the parser
// and the validator are both reported. When the parse fails, the issues found
// so far travel with the error as an [*IssuesError].
func (r *Runner) ParseXML(ctx context.Context, src io.Reader, opts LoadOptions) (*Result, error) {
	st := startStage(ctx, observability.StageParse)
	d, issues, err := xmlcraft.Parse(src, xmlcraft.Options{
		Timestamp: opts.Timestamp,
		Seed:      opts.Seed,
		Logger:    r.Logger,
	})
	if err != nil {
		st.done(0, err)
		if len(issues) > 0 {
			observability.Pipeline().OnIssues(ctx, observability.StageParse, len(issues))
			return nil, &IssuesError{Err: err, Issues: issues}
		}
		return nil, err
	}
	res := &Result{Document: d, Issues: issues}
	res.Stats.NodeCount = d.Len()
	res.Stats.Duration = st.done(d.Len(), nil)
	observability.Pipeline().OnIssues(ctx, observability.StageParse, len(issues))
	r.Logger.Debug("parsed XML", "nodes", d.Len(), "issues", len(issues), "duration", res.Stats.Duration)
	return res, nil
}

// DecodeJSON reads a node-graph JSON document and validates it.
func (r *Runner) DecodeJSON(ctx context.Context, src io.Reader) (*Result, error) {
	d, err := doc.ReadJSON(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	res := &Result{Document: d}
	if err := r.check(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Load reads a document in any supported format.
func (r *Runner) Load(ctx context.Context, src io.Reader, format Format, opts LoadOptions) (*Result, error) {
	switch format {
	case FormatJSON:
		return r.DecodeJSON(ctx, src)
	case FormatXML:
		return r.ParseXML(ctx, src, opts)
	case FormatInput:
		return r.ExpandReader(ctx, src)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// Validate checks d and returns its issues. The error is non-nil only when
// d cannot be checked at all.
func (r *Runner) Validate(ctx context.Context, d *doc.Document) (validate.Issues, error) {
	st := startStage(ctx, observability.StageValidate)
	issues, err := validate.Document(d)
	n := 0
	if d != nil {
		n = d.Len()
	}
	st.done(n, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "validate")
	}
	observability.Pipeline().OnIssues(ctx, observability.StageValidate, len(issues))
	return issues, nil
}

func (r *Runner) check(ctx context.Context, res *Result) error {
	issues, err := r.Validate(ctx, res.Document)
	if err != nil {
		return err
	}
	res.Issues = issues
	res.Stats.NodeCount = res.Document.Len()
	return nil
}

// SerializeXML writes d as XML-Craft.
func (r *Runner) SerializeXML(ctx context.Context, d *doc.Document) ([]byte, error) {
	st := startStage(ctx, observability.StageSerialize)
	out, err := xmlcraft.Marshal(d)
	if err != nil {
		st.done(0, err)
		return nil, err
	}
	st.done(d.Len(), nil)
	return out, nil
}

// Encode writes d in format. Simplified input cannot be produced from a
// document.
func (r *Runner) Encode(ctx context.Context, d *doc.Document, format Format, w io.Writer) error {
	switch format {
	case FormatXML:
		out, err := r.SerializeXML(ctx, d)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatJSON:
		return doc.WriteJSON(d, w)
	}
	return errors.New(errors.ErrCodeUnsupported, "cannot write documents as %q", format)
}

// DocumentHash returns the content hash used in cache keys.
func DocumentHash(d *doc.Document) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidDocument, err, "encode document")
	}
	return cache.Hash(data), nil
}

// cached returns the entry for key, or calls produce and stores its result.
// Cache failures are logged and never fail the request.
func (r *Runner) cached(ctx context.Context, keyType, key string, refresh bool, ttl time.Duration, produce func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		case hit:
			hooks.OnCacheHit(ctx, keyType)
			return data, true, nil
		default:
			hooks.OnCacheMiss(ctx, keyType)
		}
	}

	data, err := produce()
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
	} else {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
