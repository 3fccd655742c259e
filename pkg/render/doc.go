// Package render hands page documents to the external render service.
//
// The render service turns a node-graph document into HTML. This package
// only ships the client: [Client.Render] posts the document as
//
//	{"document": <document JSON>}
//
// and returns the response body. Transport errors, 429 and 5xx responses
// are retried with exponential backoff through [httputil.Retry]; any other
// non-2xx status fails at once with a RENDER_FAILED error that carries the
// response body.
//
//	c := render.NewClient(render.Options{URL: "http://localhost:3000/render"})
//	html, err := c.Render(ctx, d)
package render
