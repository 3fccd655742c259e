package pipeline

import (
	"context"

	"github.com/matzehuels/pagecraft/pkg/cache"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/observability"
)

// Render sends d to the render service, caching the HTML by document hash
// and endpoint. It reports whether the result came from the cache.
func (r *Runner) Render(ctx context.Context, d *doc.Document, opts RenderOptions) ([]byte, bool, error) {
	if r.Renderer == nil {
		return nil, false, errors.New(errors.ErrCodeUnsupported, "no render service configured")
	}
	hash, err := DocumentHash(d)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.RenderKey(hash, cache.RenderKeyOpts{Endpoint: r.Renderer.URL()})

	st := startStage(ctx, observability.StageRender)
	html, hit, err := r.cached(ctx, "render", key, opts.Refresh, r.RenderTTL, func() ([]byte, error) {
		return r.Renderer.Render(ctx, d)
	})
	dur := st.done(d.Len(), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("rendered page", "bytes", len(html), "cached", hit, "duration", dur)
	return html, hit, nil
}
