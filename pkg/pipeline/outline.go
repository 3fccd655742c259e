package pipeline

import (
	"context"

	"github.com/matzehuels/pagecraft/pkg/cache"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/observability"
	"github.com/matzehuels/pagecraft/pkg/outline"
)

// Outline draws the node hierarchy of d. SVG output is cached; DOT text is
// returned directly.
func (r *Runner) Outline(ctx context.Context, d *doc.Document, opts OutlineOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = outline.FormatSVG
	}
	oopts := outline.Options{Detailed: opts.Detailed}

	st := startStage(ctx, observability.StageOutline)
	if opts.Format == outline.FormatDOT {
		out, err := outline.Render(ctx, d, opts.Format, oopts)
		st.done(d.Len(), err)
		return out, false, err
	}

	hash, err := DocumentHash(d)
	if err != nil {
		st.done(0, err)
		return nil, false, err
	}
	key := r.Keyer.OutlineKey(hash, cache.OutlineKeyOpts{Format: string(opts.Format), Detailed: opts.Detailed})
	out, hit, err := r.cached(ctx, "outline", key, opts.Refresh, r.OutlineTTL, func() ([]byte, error) {
		return outline.Render(ctx, d, opts.Format, oopts)
	})
	st.done(d.Len(), err)
	return out, hit, err
}
