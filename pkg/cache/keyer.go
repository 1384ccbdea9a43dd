package cache

// Keyer derives cache keys. Every key starts with a kind prefix followed by
// a hash of its inputs.
type Keyer interface {
	// ArtworkKey identifies the downloaded bytes of an artwork URL.
	ArtworkKey(url string) string
	// LayoutKey identifies a planned layout for a request.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string
	// PosterKey identifies an encoded poster for a request.
	PosterKey(requestHash string, opts PosterKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the request that change a layout.
// The canvas follows from the request, the artwork and these limits.
type LayoutKeyOpts struct {
	MaxWidth      int `json:"max_width"`
	MaxResolution int `json:"max_resolution"`
}

// PosterKeyOpts are the inputs besides the request that change a poster.
type PosterKeyOpts struct {
	MaxWidth      int    `json:"max_width"`
	MaxResolution int    `json:"max_resolution"`
	Format        string `json:"format"`
	Quality       int    `json:"quality"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtworkKey implements Keyer.
func (DefaultKeyer) ArtworkKey(url string) string {
	return hashKey("artwork", url)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", requestHash, opts)
}

// PosterKey implements Keyer.
func (DefaultKeyer) PosterKey(requestHash string, opts PosterKeyOpts) string {
	return hashKey("poster", requestHash, opts)
}
