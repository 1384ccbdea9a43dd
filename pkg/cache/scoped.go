package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis or MongoDB without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtworkKey returns the prefixed artwork key.
func (k *ScopedKeyer) ArtworkKey(url string) string {
	return k.prefix + k.inner.ArtworkKey(url)
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(requestHash, opts)
}

// PosterKey returns the prefixed poster key.
func (k *ScopedKeyer) PosterKey(requestHash string, opts PosterKeyOpts) string {
	return k.prefix + k.inner.PosterKey(requestHash, opts)
}
