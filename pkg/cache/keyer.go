package cache

// Keyer generates cache keys for cached artifacts.
type Keyer interface {
	// RenderKey keys the HTML returned by the render service for a document.
	RenderKey(docHash string, opts RenderKeyOpts) string

	// OutlineKey keys a rendered outline diagram of a document.
	OutlineKey(docHash string, opts OutlineKeyOpts) string
}

// RenderKeyOpts holds the render options that change the output.
type RenderKeyOpts struct {
	Endpoint string `json:"endpoint"`
}

// OutlineKeyOpts holds the outline options that change the output.
type OutlineKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes the document hash and options into a prefixed key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}

// OutlineKey implements [Keyer].
func (DefaultKeyer) OutlineKey(docHash string, opts OutlineKeyOpts) string {
	return hashKey("outline", docHash, opts)
}
