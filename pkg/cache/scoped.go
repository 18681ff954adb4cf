package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server uses it
// to keep its entries apart from CLI renders sharing the same Redis.
//
//	keyer := cache.NewScopedKeyer(nil, "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MatrixKey implements Keyer.
func (k *ScopedKeyer) MatrixKey(content, level string) string {
	return k.prefix + k.inner.MatrixKey(content, level)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(renderHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(renderHash, opts)
}
