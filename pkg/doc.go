// Package pkg provides the core libraries for Pagecraft page documents.
//
// # Overview
//
// Pagecraft works with page documents: a tree of typed components (page,
// containers, text, buttons, media, forms and their fields) stored as a
// flat node graph keyed by identifier. A document has three encodings:
//
//  1. Node-graph JSON, the editor's native form
//  2. XML-Craft, a readable markup for authoring and review
//  3. Simplified input, a short section/element list that expands into a
//     full document
//
// # Architecture
//
// The typical data flow through Pagecraft:
//
//	simplified input        XML-Craft
//	      ↓                     ↓
//	  [expand]             [xmlcraft]
//	       ↘                  ↙
//	          [doc] document
//	              ↓
//	         [validate]
//	              ↓
//	 [xmlcraft] · [render] · [outline]
//
// [pipeline] runs these stages for the CLI and the HTTP server so both
// behave the same way.
//
// # Quick Start
//
// Parse XML-Craft, check it and write it back:
//
//	d, issues, err := xmlcraft.Parse(r, xmlcraft.Options{})
//	if err != nil {
//	    return err
//	}
//	more, _ := validate.Document(d)
//	issues = append(issues, more...)
//	out, _ := xmlcraft.Marshal(d)
//
// # Main Packages
//
// ## Document Model
//
// [attr] - Typed attribute values (colors, spacing, visibility, actions,
// paragraphs) and their string forms.
//
// [doc] - The node graph: component types, per-type attribute schemas,
// ownership rules and JSON encoding.
//
// [ids] - Identifier generation for new nodes.
//
// [validate] - Structural and attribute rules, reported as coded issues.
//
// ## Conversions
//
// [expand] - Simplified input to a full document, driven by per-section
// layout tables.
//
// [xmlcraft] - XML-Craft parser and serializer.
//
// ## Output
//
// [render] - HTTP client for the page render service.
//
// [outline] - Graphviz diagrams of the node hierarchy.
//
// ## Infrastructure
//
// [pipeline] - Stage orchestration with caching and observability.
//
// [cache] - Render cache backends: file, Redis, MongoDB and a no-op cache.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [httputil] - Retry helpers for outbound HTTP.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/xmlcraft/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB cache tests run when PAGECRAFT_TEST_REDIS_ADDR or
// PAGECRAFT_TEST_MONGO_URI is set.
//
// [attr]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/attr
// [doc]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/doc
// [ids]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/ids
// [validate]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/validate
// [expand]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/expand
// [xmlcraft]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/xmlcraft
// [render]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/render
// [outline]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/outline
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/errors
package pkg
